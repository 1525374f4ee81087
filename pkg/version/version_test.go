package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	v := Get()
	assert.NotEmpty(t, v.GitCommit)
	assert.Equal(t, runtime.Version(), v.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, v.Platform)
}

func TestGetInjectedCommit(t *testing.T) {
	old := gitCommit
	gitCommit = "abc123"
	defer func() { gitCommit = old }()

	assert.Equal(t, "abc123", Get().GitCommit)
}
