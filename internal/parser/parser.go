package parser

import "imprint/internal/domain"

// Parser reads collection output of a test framework
type Parser interface {
	ParseCollectCounts(result domain.CollectResult) (collected, errors int)
	NodeIDs(result domain.CollectResult) []string
}
