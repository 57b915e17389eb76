package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imprint/internal/domain"
)

func TestPytestParser_ParseCollectCounts(t *testing.T) {
	p := NewPytestParser()

	tests := []struct {
		name          string
		result        domain.CollectResult
		wantCollected int
		wantErrors    int
	}{
		{
			name: "quiet summary",
			result: domain.CollectResult{
				Success: true,
				Output:  "tests/test_a.py::test_x\ntests/test_a.py::test_y[1]\n\n2 tests collected in 0.01s\n",
			},
			wantCollected: 2,
		},
		{
			name: "single test",
			result: domain.CollectResult{
				Success: true,
				Output:  "tests/test_a.py::test_x\n\n1 test collected in 0.01s\n",
			},
			wantCollected: 1,
		},
		{
			name: "collection error",
			result: domain.CollectResult{
				Success: false,
				Output:  "ERROR tests/test_a.py\n!!! Interrupted: 1 error during collection !!!\n1 test collected, 2 errors in 0.12s\n",
			},
			wantCollected: 1,
			wantErrors:    2,
		},
		{
			name: "verbose header",
			result: domain.CollectResult{
				Success: true,
				Output:  "collected 3 items\n<Module test_a.py>\n",
			},
			wantCollected: 3,
		},
		{
			name: "no summary falls back to node ids",
			result: domain.CollectResult{
				Success: false,
				Output:  "tests/test_a.py::test_x\nTraceback (most recent call last):\n",
			},
			wantCollected: 1,
			wantErrors:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collected, errors := p.ParseCollectCounts(tt.result)
			assert.Equal(t, tt.wantCollected, collected)
			assert.Equal(t, tt.wantErrors, errors)
		})
	}
}

func TestPytestParser_NodeIDs(t *testing.T) {
	p := NewPytestParser()
	result := domain.CollectResult{Output: "tests/test_a.py::test_x\ntests/test_a.py::TestG::test_y[2]\n\n2 tests collected in 0.01s\n"}

	assert.Equal(t, []string{"tests/test_a.py::test_x", "tests/test_a.py::TestG::test_y[2]"}, p.NodeIDs(result))
}
