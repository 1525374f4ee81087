package report

import (
	"fmt"
	"strings"
	"time"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

const (
	timestampFormat = "2006-01-02 15:04:05"
	dateFormat      = "2006-01-02"

	// maxTitleLength is the number of title characters shown in the index table.
	maxTitleLength = 40
	// maxNamedRepositories is how many repository names fit in a report title.
	maxNamedRepositories = 3

	// spacer heights in millimetres
	spaceSmall  = 2.54
	spaceMedium = 5.08
	spaceLarge  = 6.35
)

var TableHeader = []string{"Repo", "#", "Title", "Author", "State", "Created", "Files", "+/-"}

type Assembler struct {
	Now func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now}
}

// RepositoryLabel names the repositories of a run, or counts them when there are too many.
func RepositoryLabel(repositories []string) string {
	if len(repositories) <= maxNamedRepositories {
		return strings.Join(repositories, ", ")
	}
	return fmt.Sprintf("%d repositories", len(repositories))
}

// Assemble lays out a report: title, totals, per-repository breakdown, index table and a
// detail section per record. Records are used in the order given and are not modified.
func (a *Assembler) Assemble(repositories []string, records []v1.PullRequestRecord, periodDays int, state string) *Document {
	doc := &Document{
		Title:       fmt.Sprintf("Pull Request Report - %s", RepositoryLabel(repositories)),
		GeneratedAt: a.Now(),
	}

	doc.title(doc.Title)
	doc.paragraph(fmt.Sprintf("Generated on: %s", doc.GeneratedAt.Format(timestampFormat)))
	doc.paragraph(fmt.Sprintf("Period: last %d days", periodDays))
	doc.paragraph(fmt.Sprintf("State: %s", state))
	doc.spacer(spaceLarge)

	doc.heading(2, fmt.Sprintf("Total Pull Requests: %d", len(records)))

	repos, counts := countByRepository(records)
	if len(repos) > 1 {
		doc.spacer(spaceSmall)
		doc.heading(3, "PRs by Repository:")
		for _, repo := range repos {
			doc.bullet(fmt.Sprintf("%s: %d PRs", repo, counts[repo]))
		}
	}
	doc.spacer(spaceMedium)

	if len(records) == 0 {
		return doc
	}

	doc.table(indexTable(records))

	doc.spacer(spaceMedium)
	doc.heading(2, "Pull Request Details")
	for _, pr := range records {
		doc.spacer(spaceSmall)
		details(doc, pr)
		doc.spacer(spaceSmall)
	}
	return doc
}

func countByRepository(records []v1.PullRequestRecord) ([]string, map[string]int) {
	var order []string
	counts := map[string]int{}
	for _, pr := range records {
		if _, ok := counts[pr.Repo]; !ok {
			order = append(order, pr.Repo)
		}
		counts[pr.Repo]++
	}
	return order, counts
}

func indexTable(records []v1.PullRequestRecord) *Table {
	t := &Table{Header: TableHeader}
	for _, pr := range records {
		t.Rows = append(t.Rows, []string{
			shortRepo(pr.Repo),
			fmt.Sprintf("%d", pr.Number),
			truncate(pr.Title, maxTitleLength),
			pr.Author,
			pr.DisplayState(),
			pr.CreatedAt.Format(dateFormat),
			fmt.Sprintf("%d", pr.ChangedFiles),
			fmt.Sprintf("%d/%d", pr.Additions, pr.Deletions),
		})
	}
	return t
}

func details(doc *Document, pr v1.PullRequestRecord) {
	doc.heading(3, fmt.Sprintf("[%s] PR #%d: %s", pr.Repo, pr.Number, pr.Title))
	doc.paragraph(fmt.Sprintf("Author: %s", pr.Author))
	state := pr.State
	if pr.Merged {
		state += " (merged)"
	}
	doc.paragraph(fmt.Sprintf("State: %s", state))
	doc.paragraph(fmt.Sprintf("Created on: %s", pr.CreatedAt.Format(timestampFormat)))
	doc.paragraph(fmt.Sprintf("Last updated: %s", pr.UpdatedAt.Format(timestampFormat)))
	doc.paragraph(fmt.Sprintf("Comments: %d", pr.Comments))
	doc.paragraph(fmt.Sprintf("Changed files: %d", pr.ChangedFiles))
	doc.paragraph(fmt.Sprintf("Additions/Deletions: +%d/-%d", pr.Additions, pr.Deletions))
	doc.paragraph(fmt.Sprintf("URL: %s", pr.URL))

	a := pr.Analysis
	if a.IsEmpty() {
		return
	}
	doc.heading(4, "Code Analysis:")
	if len(a.Languages) > 0 {
		parts := make([]string, 0, len(a.Languages))
		for _, l := range a.Languages {
			parts = append(parts, fmt.Sprintf("%s: %d", l.Language, l.Lines))
		}
		doc.paragraph(fmt.Sprintf("Languages: %s", strings.Join(parts, ", ")))
	}
	doc.paragraph(fmt.Sprintf("Estimated complexity: %d/10", a.Complexity))
	doc.paragraph(fmt.Sprintf("Risk score: %d", a.RiskScore))
	if len(a.Issues) > 0 {
		doc.paragraph("Identified issues:")
		for _, issue := range a.Issues {
			doc.bullet(issue)
		}
	}
}

// shortRepo drops the owner from "owner/name".
func shortRepo(repo string) string {
	if parts := strings.Split(repo, "/"); len(parts) > 1 {
		return parts[1]
	}
	return repo
}

// truncate counts characters, not bytes, so multi-byte titles are never cut mid-rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
