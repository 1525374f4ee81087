package flags

import (
	"github.com/spf13/pflag"

	"github.com/openshift/pr-report/pkg/metrics"
)

type MetricsFlags struct {
	Pushgateway string
}

func NewMetricsFlags() *MetricsFlags {
	return &MetricsFlags{}
}

func (f *MetricsFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Pushgateway, "pushgateway", f.Pushgateway, "Prometheus pushgateway URL, defaults to $"+metrics.PushgatewayEnv)
}

func (f *MetricsFlags) GetPusher() *metrics.Pusher {
	return metrics.NewPusher(f.Pushgateway)
}
