package parser

import (
	"regexp"
	"strconv"
	"strings"

	"imprint/internal/domain"
)

var (
	collectedPattern = regexp.MustCompile(`(\d+)(?:/\d+)? tests? collected`)
	itemsPattern     = regexp.MustCompile(`collected (\d+) items?`)
	errorsPattern    = regexp.MustCompile(`(\d+) errors?\b`)
	nodeIDPattern    = regexp.MustCompile(`^\S+\.py::\S`)
)

// PytestParser parses `pytest --collect-only -q` output
type PytestParser struct{}

// NewPytestParser creates a new PytestParser
func NewPytestParser() *PytestParser {
	return &PytestParser{}
}

// ParseCollectCounts extracts the number of collected tests and collection errors.
// If no summary line is found it falls back to counting node ids, with one error
// when the command failed.
func (p *PytestParser) ParseCollectCounts(result domain.CollectResult) (collected, errors int) {
	output := result.Output

	if m := collectedPattern.FindStringSubmatch(output); len(m) >= 2 {
		collected, _ = strconv.Atoi(m[1])
	} else if m := itemsPattern.FindStringSubmatch(output); len(m) >= 2 {
		collected, _ = strconv.Atoi(m[1])
	} else {
		for _, line := range strings.Split(output, "\n") {
			if nodeIDPattern.MatchString(strings.TrimSpace(line)) {
				collected++
			}
		}
	}

	if m := errorsPattern.FindStringSubmatch(summaryLine(output)); len(m) >= 2 {
		errors, _ = strconv.Atoi(m[1])
	}
	if errors == 0 && !result.Success {
		errors = 1
	}
	return collected, errors
}

// NodeIDs returns the collected test ids, e.g. "tests/test_a.py::test_x[1]"
func (p *PytestParser) NodeIDs(result domain.CollectResult) []string {
	var ids []string
	for _, line := range strings.Split(result.Output, "\n") {
		line = strings.TrimSpace(line)
		if nodeIDPattern.MatchString(line) {
			ids = append(ids, line)
		}
	}
	return ids
}

// summaryLine returns the last non-empty line of output
func summaryLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return strings.Trim(line, "= ")
		}
	}
	return ""
}
