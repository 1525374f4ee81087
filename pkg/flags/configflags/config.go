package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift/pr-report/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the optional defaults file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"YAML file with default review settings, command line flags override it")
}

// GetConfig returns an empty configuration when no file was given.
func (f *ConfigFlags) GetConfig() (*v1.ReportConfig, error) {
	var reportConfig v1.ReportConfig

	if f.Path == "" {
		return &reportConfig, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, &reportConfig); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}

	return &reportConfig, nil
}
