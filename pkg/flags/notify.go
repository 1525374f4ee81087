package flags

import (
	"github.com/spf13/pflag"

	configv1 "github.com/openshift/pr-report/pkg/apis/config/v1"
)

type NotifyFlags struct {
	Enabled bool   `flag:"notify"`
	Email   string `flag:"email" validate:"required_if=Enabled true,omitempty,email"`
}

func NewNotifyFlags() *NotifyFlags {
	return &NotifyFlags{}
}

func (f *NotifyFlags) BindFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&f.Enabled, "notify", f.Enabled, "Email a notification through Amazon SNS once the report is ready")
	fs.StringVar(&f.Email, "email", f.Email, "Address to notify, required with --notify")
}

func (f *NotifyFlags) ApplyConfig(cfg *configv1.ReportConfig, fs *pflag.FlagSet) {
	if cfg.Notify.Enabled && !fs.Changed("notify") {
		f.Enabled = true
	}
	if cfg.Notify.Email != "" && !fs.Changed("email") {
		f.Email = cfg.Notify.Email
	}
}
