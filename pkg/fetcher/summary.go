package fetcher

import (
	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

// Summary describes a finished fetch for the closing log line.
type Summary struct {
	Total              int
	Repositories       int
	ByState            map[string]int
	MeanChangedFiles   float64
	MedianChangedFiles float64
	MeanLineChanges    float64
	MedianLineChanges  float64
	MaxRiskScore       int
}

func Summarize(records []v1.PullRequestRecord) Summary {
	s := Summary{Total: len(records), ByState: map[string]int{}}
	if len(records) == 0 {
		return s
	}

	repos := map[string]bool{}
	files := make(stats.Float64Data, 0, len(records))
	lines := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		repos[r.Repo] = true
		s.ByState[r.DisplayState()]++
		files = append(files, float64(r.ChangedFiles))
		lines = append(lines, float64(r.Additions+r.Deletions))
		if r.Analysis != nil && r.Analysis.RiskScore > s.MaxRiskScore {
			s.MaxRiskScore = r.Analysis.RiskScore
		}
	}
	s.Repositories = len(repos)

	// errors are only returned for empty input, which is handled above
	s.MeanChangedFiles, _ = files.Mean()
	s.MedianChangedFiles, _ = files.Median()
	s.MeanLineChanges, _ = lines.Mean()
	s.MedianLineChanges, _ = lines.Median()
	return s
}

func (s Summary) Fields() log.Fields {
	return log.Fields{
		"total":                s.Total,
		"repositories":         s.Repositories,
		"by_state":             s.ByState,
		"mean_changed_files":   s.MeanChangedFiles,
		"median_changed_files": s.MedianChangedFiles,
		"mean_line_changes":    s.MeanLineChanges,
		"median_line_changes":  s.MedianLineChanges,
		"max_risk_score":       s.MaxRiskScore,
	}
}
