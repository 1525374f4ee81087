package v1

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide how to recover without
// inspecting error strings.
type ErrorKind string

const (
	// ErrorKindRepository covers fetch failures for one repository, the repository is skipped.
	ErrorKindRepository ErrorKind = "repository"
	// ErrorKindAnalysis covers changed-file listing failures, analysis degrades to zero scores.
	ErrorKindAnalysis ErrorKind = "analysis"
	// ErrorKindUpload means the report was not published, callers treat the URL as absent.
	ErrorKindUpload ErrorKind = "upload"
	// ErrorKindNotification means the announcement was not sent.
	ErrorKindNotification ErrorKind = "notification"
	// ErrorKindConfig is fatal and stops the run before any fetch.
	ErrorKindConfig ErrorKind = "config"
)

type Error struct {
	Kind ErrorKind
	// Subject is what failed, a repository name, a file path, an email address.
	Subject string
	Err     error
}

func NewError(kind ErrorKind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
