package metrics

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

// PushgatewayEnv names the environment variable consulted when no pushgateway flag is given.
const PushgatewayEnv = "PR_REPORT_PROMETHEUS_PUSHGATEWAY"

const jobName = "pr-report"

var PullRequestsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pr_report_pull_requests_processed_total",
	Help: "Pull requests accepted into a report",
}, []string{"repo"})

var RepositoryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pr_report_repository_errors_total",
	Help: "Repositories skipped because they could not be fetched",
}, []string{"repo"})

var AnalysisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pr_report_analysis_errors_total",
	Help: "Pull requests whose changed files could not be listed",
}, []string{"repo"})

var RiskScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pr_report_risk_score",
	Help:    "Risk score of analyzed pull requests",
	Buckets: []float64{0, 1, 2, 5, 10, 20},
}, []string{"repo"})

var StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pr_report_stage_millis",
	Help:    "Milliseconds spent in each stage of a report run",
	Buckets: []float64{100, 500, 1000, 5000, 10000, 30000, 60000, 300000, 600000},
}, []string{"stage"})

// ObserveStage records the time elapsed since start for stage.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}

// Pusher sends the collectors above to a Prometheus pushgateway at the end of a run.
// A nil Pusher is valid and does nothing, a CLI run has no scrape endpoint.
type Pusher struct {
	pusher *push.Pusher
}

// NewPusher returns nil when neither pushgateway nor the environment variable is set.
func NewPusher(pushgateway string) *Pusher {
	if pushgateway == "" {
		pushgateway = os.Getenv(PushgatewayEnv)
	}
	if pushgateway == "" {
		return nil
	}

	p := push.New(pushgateway, jobName).
		Collector(PullRequestsProcessed).
		Collector(RepositoryErrors).
		Collector(AnalysisErrors).
		Collector(RiskScore).
		Collector(StageDuration)
	return &Pusher{pusher: p}
}

// Push logs and swallows failures, metrics never fail a report run.
func (p *Pusher) Push() {
	if p == nil {
		return
	}
	log.Info("pushing metrics to prometheus gateway")
	if err := p.pusher.Add(); err != nil {
		log.WithError(err).Error("could not push to prometheus pushgateway")
		return
	}
	log.Info("successfully pushed metrics to prometheus gateway")
}
