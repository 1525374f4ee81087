package language

import (
	"path"
	"strings"
)

// Other is returned for any extension not in the table, including the empty one.
const Other = "Other"

var byExtension = map[string]string{
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".java": "Java",
	".cs":   "C#",
	".go":   "Go",
	".rb":   "Ruby",
	".php":  "PHP",
	".html": "HTML",
	".css":  "CSS",
	".md":   "Markdown",
	".json": "JSON",
	".yml":  "YAML",
	".yaml": "YAML",
	".xml":  "XML",
	".sh":   "Shell",
	".bat":  "Batch",
	".ps1":  "PowerShell",
}

// Classify maps a file extension such as ".py" to a language label. Matching ignores case.
func Classify(extension string) string {
	if label, ok := byExtension[strings.ToLower(extension)]; ok {
		return label
	}
	return Other
}

// Extension returns the suffix of the last path element starting at its final dot.
// Leading dots do not count, so ".gitignore" and "Makefile" have no extension.
func Extension(filename string) string {
	base := strings.TrimLeft(path.Base(filename), ".")
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i:]
	}
	return ""
}

// FromFilename classifies a repository path.
func FromFilename(filename string) string {
	return Classify(Extension(filename))
}
