package v1

// ReportConfig holds defaults for a review run. Command line flags take precedence over
// anything set here.
type ReportConfig struct {
	// Repositories are "owner/name" pairs reviewed when --repo is not given.
	Repositories []string      `yaml:"repositories,omitempty"`
	State        string        `yaml:"state,omitempty"`
	Days         int           `yaml:"days,omitempty"`
	Limit        int           `yaml:"limit,omitempty"`
	Analyze      bool          `yaml:"analyze,omitempty"`
	Output       string        `yaml:"output,omitempty"`
	Storage      StorageConfig `yaml:"storage,omitempty"`
	Notify       NotifyConfig  `yaml:"notify,omitempty"`
}

type StorageConfig struct {
	// Backend is either s3 or gcs.
	Backend   string `yaml:"backend,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	AWSRegion string `yaml:"awsRegion,omitempty"`
}

type NotifyConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Email   string `yaml:"email,omitempty"`
}
