package analysis

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/language"
	"github.com/openshift/pr-report/pkg/metrics"
)

const (
	// LargeChangeThreshold is the per-file change count above which a file is flagged.
	LargeChangeThreshold = 500
	MaxComplexity        = 10

	TODOMarker  = "TODO"
	FIXMEMarker = "FIXME"
)

// FileLister returns the files changed by a pull request.
type FileLister interface {
	ListFiles(ctx context.Context, repo *v1.Repository, number int) ([]v1.ChangedFile, error)
}

// Analyze runs the heuristics over files in order. Issue order follows file order,
// scores do not depend on it.
func Analyze(files []v1.ChangedFile) *v1.AnalysisResult {
	result := newResult()

	for _, file := range files {
		result.AddLanguageLines(language.FromFilename(file.Filename), file.Changes)

		if file.Changes > LargeChangeThreshold {
			result.Issues = append(result.Issues, fmt.Sprintf("File %s has too many changes (%d)", file.Filename, file.Changes))
			result.RiskScore++
		}

		if file.Patch != "" {
			if strings.Contains(file.Patch, TODOMarker) {
				result.Issues = append(result.Issues, fmt.Sprintf("TODOs found in %s", file.Filename))
			}
			if strings.Contains(file.Patch, FIXMEMarker) {
				result.Issues = append(result.Issues, fmt.Sprintf("FIXMEs found in %s", file.Filename))
				result.RiskScore++
			}
		}
	}

	result.Complexity = min(MaxComplexity, len(files)/2)
	return result
}

// AnalyzePullRequest lists the changed files of a pull request and analyzes them. It never
// fails: when the listing cannot be retrieved the result carries zero scores and a single
// issue describing the failure.
func AnalyzePullRequest(ctx context.Context, lister FileLister, repo *v1.Repository, number int) *v1.AnalysisResult {
	files, err := lister.ListFiles(ctx, repo, number)
	if err != nil {
		analysisErr := v1.NewError(v1.ErrorKindAnalysis, fmt.Sprintf("%s#%d", repo.FullName, number), err)
		log.WithError(analysisErr).
			WithField("repo", repo.FullName).
			WithField("number", number).
			Warn("could not list changed files, analysis degraded")
		metrics.AnalysisErrors.WithLabelValues(repo.FullName).Inc()

		result := newResult()
		result.Issues = append(result.Issues, fmt.Sprintf("Analysis error: %v", err))
		return result
	}

	result := Analyze(files)
	metrics.RiskScore.WithLabelValues(repo.FullName).Observe(float64(result.RiskScore))
	return result
}

func newResult() *v1.AnalysisResult {
	return &v1.AnalysisResult{
		Issues:    []string{},
		Languages: []v1.LanguageLines{},
	}
}
