package cli

import "imprint/internal/config"

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
	Verbose     bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors:  f.Processors,
		TestPath:    f.TestPath,
		NameFilter:  f.NameFilter,
		Scope:       f.Scope,
		Assignments: f.Assignments,
		UseDB:       f.UseDB,
		Strict:      f.Strict,
		Verify:      f.Verify,
		Interactive: f.Interactive,
	}
}
