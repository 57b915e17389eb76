package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultNamespace is the module name used in decorations (@pytest.mark.x)
	DefaultNamespace = "pytest"
	// DefaultOutputJSONFile is the default report file name
	DefaultOutputJSONFile = "imprint-report.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of discovery workers
	DefaultProcessors = 4
	// DefaultPython is the interpreter used to verify rewritten files
	DefaultPython = "python"
	// DefaultMarksTable is the table read by the MySQL assignment source
	DefaultMarksTable = "imprint_marks"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"venv",
	"env",
	"__pycache__",
	"node_modules",
	"build",
	"dist",
	"site-packages",
	"storage",
}

// DefaultFilePatterns are the file names pytest collects by default
var DefaultFilePatterns = []string{
	"test_*.py",
	"*_test.py",
}
