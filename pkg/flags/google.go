package flags

import (
	"github.com/spf13/pflag"
)

// GoogleCloudFlags contain configuration information for Google cloud-related services.
type GoogleCloudFlags struct {
	ServiceAccountCredentialFile string
}

func NewGoogleCloudFlags() *GoogleCloudFlags {
	return &GoogleCloudFlags{}
}

func (f *GoogleCloudFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ServiceAccountCredentialFile,
		"google-service-account-credential-file",
		f.ServiceAccountCredentialFile,
		"location of a credential file described by https://cloud.google.com/docs/authentication/production")
}
