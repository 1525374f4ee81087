package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

func TestRenderEmpty(t *testing.T) {
	doc := testAssembler().Assemble([]string{"test/repo"}, nil, 7, "open")

	buf := &bytes.Buffer{}
	pages, err := Render(doc, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderSpansPages(t *testing.T) {
	var records []v1.PullRequestRecord
	for i := 1; i <= 80; i++ {
		pr := samplePR(fmt.Sprintf("org/repo%d", i%3), i)
		pr.Analysis = &v1.AnalysisResult{
			Complexity: 1,
			Languages:  []v1.LanguageLines{{Language: "Go", Lines: i}},
			Issues:     []string{"TODOs found in main.go"},
		}
		records = append(records, pr)
	}
	doc := testAssembler().Assemble([]string{"org/repo0", "org/repo1", "org/repo2"}, records, 7, "all")

	pages, err := Render(doc, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Greater(t, pages, 3)
}

func TestRenderIsReproducible(t *testing.T) {
	records := []v1.PullRequestRecord{samplePR("org/a", 1), samplePR("org/b", 2)}
	doc := testAssembler().Assemble([]string{"org/a", "org/b"}, records, 7, "open")

	first, second := &bytes.Buffer{}, &bytes.Buffer{}
	_, err := Render(doc, first)
	require.NoError(t, err)
	_, err = Render(doc, second)
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_report.pdf")
	doc := testAssembler().Assemble([]string{"test/repo"}, []v1.PullRequestRecord{samplePR("test/repo", 1)}, 7, "open")

	_, err := WriteFile(doc, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = WriteFile(doc, filepath.Join(t.TempDir(), "missing", "report.pdf"))
	assert.Error(t, err)
}
