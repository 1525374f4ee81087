// Package event adapts a serverless invocation event into a review run.
package event

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

const (
	DefaultRepository = "vec21/aws-challenge-automation"
	DefaultDays       = 7

	successMessage = "Review completed successfully"
)

// Event is the invocation payload. Every field is optional.
type Event struct {
	Repositories []string
	Days         int
	Analyze      bool
	Notify       bool
	Email        string
	State        string
}

// Environment is read from the process environment of the function.
type Environment struct {
	GitHubToken string `env:"GITHUB_TOKEN" env-required:"true"`
	BucketName  string `env:"BUCKET_NAME"`
	AWSRegion   string `env:"AWS_REGION" env-default:"us-east-1"`
}

// Parse reads an event, falling back to defaults for missing fields. "repo" may hold a comma
// separated list. An empty payload is the default event.
func Parse(data []byte) (*Event, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) {
		return nil, v1.NewError(v1.ErrorKindConfig, "event", errors.New("event is not valid JSON"))
	}
	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return nil, v1.NewError(v1.ErrorKindConfig, "event", errors.New("event must be a JSON object"))
	}

	e := &Event{
		Repositories: []string{DefaultRepository},
		Days:         DefaultDays,
		State:        v1.StateOpen,
	}
	if repo := result.Get("repo"); repo.Exists() && repo.String() != "" {
		e.Repositories = splitList(repo.String())
	}
	if days := result.Get("days"); days.Exists() {
		e.Days = int(days.Int())
	}
	if state := result.Get("state"); state.Exists() && state.String() != "" {
		e.State = state.String()
	}
	e.Analyze = result.Get("analyze").Bool()
	e.Notify = result.Get("notify").Bool()
	e.Email = result.Get("email").String()
	return e, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadEnvironment fails with a config error when GITHUB_TOKEN is unset.
func LoadEnvironment() (*Environment, error) {
	var env Environment
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, v1.NewError(v1.ErrorKindConfig, "environment", err)
	}
	if env.GitHubToken == "" {
		return nil, v1.NewError(v1.ErrorKindConfig, "environment", errors.New("GITHUB_TOKEN environment variable is required"))
	}
	return &env, nil
}

// OutputPath is where the handler writes its report. A fresh id is generated when the
// invocation carries none.
func OutputPath(requestID string) string {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return fmt.Sprintf("/tmp/report-%s.pdf", requestID)
}

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type ResponseBody struct {
	Message string  `json:"message"`
	Report  string  `json:"report"`
	Website *string `json:"website"`
}

// NewResponse describes a finished run. report is the published location when there is one
// and the local path otherwise, website is empty when nothing was published.
func NewResponse(report, website string) (*Response, error) {
	body := ResponseBody{Message: successMessage, Report: report}
	if website != "" {
		body.Website = &website
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode response body")
	}
	return &Response{StatusCode: 200, Body: string(data)}, nil
}
