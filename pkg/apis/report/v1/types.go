package v1

import "time"

// PullRequest lifecycle states as reported by the repository service. Merged is not a state
// of its own upstream; it is a flag on a closed pull request.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
	StateMerged = "merged"
)

// Repository identifies a repository on the remote service.
type Repository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// PullRequestRecord is the metadata captured for one pull request. Analysis is nil
// when analysis was not requested.
type PullRequestRecord struct {
	Repo         string          `json:"repo"`
	Number       int             `json:"number"`
	Title        string          `json:"title"`
	Author       string          `json:"user"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Comments     int             `json:"comments"`
	Additions    int             `json:"additions"`
	Deletions    int             `json:"deletions"`
	ChangedFiles int             `json:"changed_files"`
	URL          string          `json:"url"`
	State        string          `json:"state"`
	Merged       bool            `json:"merged"`
	Analysis     *AnalysisResult `json:"analysis,omitempty"`
}

// DisplayState is the state shown in summary tables, merged wins over the raw state.
func (r PullRequestRecord) DisplayState() string {
	if r.Merged {
		return StateMerged
	}
	return r.State
}

// ChangedFile is one file touched by a pull request. Patch is empty when the service
// did not return diff text (binary or very large files).
type ChangedFile struct {
	Filename string `json:"filename"`
	Changes  int    `json:"changes"`
	Patch    string `json:"patch,omitempty"`
}

// LanguageLines is the aggregate of changed lines for one language label.
type LanguageLines struct {
	Language string `json:"language"`
	Lines    int    `json:"lines"`
}

type AnalysisResult struct {
	// Complexity is in [0,10] and derived from the number of files only.
	Complexity int `json:"complexity"`
	// Issues keeps the order in which files were examined.
	Issues []string `json:"issues"`
	// Languages keeps first-seen order so rendered output is reproducible.
	Languages []LanguageLines `json:"languages"`
	RiskScore int             `json:"risk_score"`
}

func (a *AnalysisResult) AddLanguageLines(language string, lines int) {
	for i := range a.Languages {
		if a.Languages[i].Language == language {
			a.Languages[i].Lines += lines
			return
		}
	}
	a.Languages = append(a.Languages, LanguageLines{Language: language, Lines: lines})
}

// Lines returns the aggregate for language, zero when absent.
func (a *AnalysisResult) Lines(language string) int {
	for _, l := range a.Languages {
		if l.Language == language {
			return l.Lines
		}
	}
	return 0
}

// IsEmpty reports whether there is nothing worth rendering.
func (a *AnalysisResult) IsEmpty() bool {
	return a == nil || (len(a.Issues) == 0 && len(a.Languages) == 0)
}

// ObjectMetadata describes one object in a storage bucket listing.
type ObjectMetadata struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// PublishedArtifact is a report that has been uploaded to a bucket.
type PublishedArtifact struct {
	Bucket       string    `json:"bucket"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	// Website is the bucket's index page, empty when it could not be refreshed.
	Website string `json:"website,omitempty"`
}
