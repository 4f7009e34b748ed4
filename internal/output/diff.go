package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult holds the result of a comparison
type DiffResult struct {
	Left        string  `json:"left" yaml:"left"`
	Right       string  `json:"right" yaml:"right"`
	LineCount1  int     `json:"lines_left" yaml:"lines_left"`
	LineCount2  int     `json:"lines_right" yaml:"lines_right"`
	Similarity  float64 `json:"similarity" yaml:"similarity"`
	Changed     bool    `json:"changed" yaml:"changed"`
	UnifiedDiff string  `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// ComputeDiff compares two texts line by line.
func ComputeDiff(left, content1, right, content2 string) *DiffResult {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(content1, content2)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	dist := dmp.DiffLevenshtein(diffs)
	maxLen := max(len(content1), len(content2))
	similarity := 1.0
	if maxLen > 0 {
		similarity = 1.0 - (float64(dist) / float64(maxLen))
	}

	return &DiffResult{
		Left:        left,
		Right:       right,
		LineCount1:  countLines(content1),
		LineCount2:  countLines(content2),
		Similarity:  similarity,
		Changed:     content1 != content2,
		UnifiedDiff: lineDiff(diffs),
	}
}

// lineDiff renders line diffs with +/- markers and unchanged lines
// indented by two spaces.
func lineDiff(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}
