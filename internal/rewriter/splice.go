package rewriter

import (
	"fmt"
	"sort"
	"strings"

	"imprint/internal/domain"
)

// Edit replaces the lines of Span in File with Replacement.
// Original is the text those lines held at discovery time.
type Edit struct {
	File        string
	Span        domain.Span
	Original    string
	Replacement string
	Family      bool                // Whether the edit rewrites a parametrize decoration
	Tests       []domain.MarkedTest // Tests that received new markers
}

// Splice applies edits to content by line range. Every span must still hold
// its Original text, and spans must not overlap. Edits are applied bottom-up
// so earlier line numbers stay valid. In CRLF files the replacement lines get
// CRLF endings too.
func Splice(content string, edits []Edit) (string, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start > sorted[j].Span.Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Span.Overlaps(sorted[i-1].Span) {
			return "", fmt.Errorf("%w: lines %d-%d and %d-%d", ErrOverlappingEdits,
				sorted[i].Span.Start, sorted[i].Span.End, sorted[i-1].Span.Start, sorted[i-1].Span.End)
		}
	}

	crlf := strings.Contains(content, "\r\n")
	lines := strings.Split(content, "\n")
	for _, e := range sorted {
		if e.Span.Start < 1 || e.Span.End < e.Span.Start || e.Span.End > len(lines) {
			return "", fmt.Errorf("%w: %s lines %d-%d out of range", ErrSpanMismatch, e.File, e.Span.Start, e.Span.End)
		}
		if got := strings.Join(lines[e.Span.Start-1:e.Span.End], "\n"); got != e.Original {
			return "", fmt.Errorf("%w: %s lines %d-%d changed since discovery", ErrSpanMismatch, e.File, e.Span.Start, e.Span.End)
		}

		replacement := strings.Split(e.Replacement, "\n")
		if crlf {
			replacement = withCR(replacement, strings.HasSuffix(lines[e.Span.End-1], "\r"))
		}
		spliced := make([]string, 0, len(lines)-(e.Span.End-e.Span.Start+1)+len(replacement))
		spliced = append(spliced, lines[:e.Span.Start-1]...)
		spliced = append(spliced, replacement...)
		spliced = append(spliced, lines[e.Span.End:]...)
		lines = spliced
	}

	return strings.Join(lines, "\n"), nil
}

// withCR ends every line with \r, the last one only if lastCR is set
func withCR(lines []string, lastCR bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if i < len(lines)-1 || lastCR {
			line += "\r"
		}
		out[i] = line
	}
	return out
}
