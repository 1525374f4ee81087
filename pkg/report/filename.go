package report

import (
	"fmt"
	"strings"
)

// DefaultOutput is the --output default; when unchanged a name is derived from the run.
const DefaultOutput = "report.pdf"

// OutputFilename returns requested unless it is DefaultOutput, in which case the name is
// "<repo>_<state>.pdf" for a single repository and "multi-repos_<state>.pdf" otherwise.
func OutputFilename(repositories []string, state, requested string) string {
	if requested != "" && requested != DefaultOutput {
		return requested
	}
	short := "multi-repos"
	if len(repositories) == 1 {
		short = repositories[0]
		if strings.Contains(short, "/") {
			short = strings.Split(short, "/")[1]
		}
	}
	return fmt.Sprintf("%s_%s.pdf", short, state)
}
