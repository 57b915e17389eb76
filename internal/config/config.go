package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Decoration settings
	Namespace string
	Strict    bool

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Discovery settings
	Processors    int
	PathsToIgnore []string
	FilePatterns  []string

	// Assignment sources
	AssignmentsPath string
	MarksTable      string

	// Interpreter used for --verify
	Python string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors  int
	TestPath    string
	NameFilter  string
	Scope       string
	Assignments string
	UseDB       bool
	Strict      bool
	Verify      bool
	Interactive bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		Namespace:      DefaultNamespace,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Processors:     DefaultProcessors,
		MarksTable:     DefaultMarksTable,
		Python:         DefaultPython,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	cfg.FilePatterns = make([]string, len(DefaultFilePatterns))
	copy(cfg.FilePatterns, DefaultFilePatterns)
	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.LoadEnv()
	cfg.ApplyFlags(flags)
	return cfg
}

// ApplyFlags stores flags and applies their overrides
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Strict {
		c.Strict = true
	}
	if flags.Assignments != "" {
		c.AssignmentsPath = flags.Assignments
	}
}

// LoadEnv applies IMPRINT_* overrides from the environment and the project's .env file.
// Variables already set in the environment win over the file.
func (c *Config) LoadEnv() {
	// .env is optional
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))

	if ns := os.Getenv("IMPRINT_NAMESPACE"); ns != "" {
		c.Namespace = ns
	}
	if strict := os.Getenv("IMPRINT_STRICT"); strict != "" {
		if v, err := strconv.ParseBool(strict); err == nil {
			c.Strict = v
		}
	}
	if path := os.Getenv("IMPRINT_ASSIGNMENTS"); path != "" {
		c.AssignmentsPath = path
	}
	if python := os.Getenv("IMPRINT_PYTHON"); python != "" {
		c.Python = python
	}
	if table := os.Getenv("IMPRINT_MARKS_TABLE"); table != "" {
		c.MarksTable = table
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	return c.resolve(c.Flags.TestPath, c.TestPath)
}

// GetScopePath returns the directory tests must live under to be rewritten.
// Defaults to the test path.
func (c *Config) GetScopePath() string {
	if c.Flags.Scope == "" {
		return c.GetTestPath()
	}
	return c.resolve(c.Flags.Scope, c.TestPath)
}

// GetAssignmentsPath returns the assignment file path relative to the project
func (c *Config) GetAssignmentsPath() string {
	if c.AssignmentsPath == "" {
		return ""
	}
	if filepath.IsAbs(c.AssignmentsPath) {
		return c.AssignmentsPath
	}
	return filepath.Join(c.ProjectPath, c.AssignmentsPath)
}

// GetOutputPath returns the full path to the report JSON file.
// Resolves to an absolute path so apply and report always use the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (c *Config) resolve(flagPath, fallback string) string {
	if flagPath != "" {
		// Relative flag paths are relative to the project
		if filepath.IsAbs(flagPath) {
			return flagPath
		}
		return filepath.Join(c.ProjectPath, flagPath)
	}
	return filepath.Join(c.ProjectPath, fallback)
}
