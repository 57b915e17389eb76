package domain

// MarkedTest records markers written for one test during a run
type MarkedTest struct {
	TestName string   `json:"test_name"`
	FilePath string   `json:"file_path"`
	Line     int      `json:"line"`
	Markers  []string `json:"markers"`
}

// RunMeta contains metadata about an apply run
type RunMeta struct {
	FilesTouched      int     `json:"files_touched"`
	TestsMarked       int     `json:"tests_marked"`
	FamiliesRewritten int     `json:"families_rewritten"`
	MarkersApplied    int     `json:"markers_applied"`
	Strict            bool    `json:"strict"`
	Duration          string  `json:"duration"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Timestamp         string  `json:"timestamp"`
}

// RunReport is the complete output structure of an apply run
type RunReport struct {
	Meta    RunMeta      `json:"meta"`
	Details []MarkedTest `json:"details"`
}

// ParseResult is the outcome of parsing one test file during discovery
type ParseResult struct {
	Path  string
	Items []TestItem
	Err   error
}

// CollectResult is the outcome of running the test framework's collection on rewritten files
type CollectResult struct {
	Success   bool   // Whether collection exited cleanly
	Output    string // Raw output of the collection run
	Error     error  // Error if the command failed
	Collected int    // Number of tests collected
	Errors    int    // Number of collection errors reported
}
