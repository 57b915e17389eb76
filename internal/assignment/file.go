package assignment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"imprint/internal/domain"
)

// ErrInvalidMark is returned for a mark entry that cannot be read
var ErrInvalidMark = errors.New("invalid mark")

// FileSource reads an assignment from a YAML or JSON file:
//
//	test_login:
//	  - testcaseid(12345)
//	  - smoke
//	"test_parametrized[2]":
//	  - {name: testcaseid, args: [12346], decorator: true}
type FileSource struct {
	Path string
}

// NewFileSource creates a new FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and decodes the file
func (s *FileSource) Load(ctx context.Context) (domain.Assignment, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read assignments: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML (or JSON) assignment data
func Parse(data []byte) (domain.Assignment, error) {
	var raw map[string][]markEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}

	a := make(domain.Assignment, len(raw))
	for name, entries := range raw {
		for _, entry := range entries {
			a.Add(name, entry.mark)
		}
	}
	return a, nil
}

// markEntry is one list entry: a "name(args)" string or a mapping
type markEntry struct {
	mark domain.Markable
}

func (s *markEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		m, err := ParseMarker(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		s.mark = m
		return nil
	case yaml.MappingNode:
		var entry struct {
			Name      string `yaml:"name"`
			Args      []any  `yaml:"args"`
			Decorator bool   `yaml:"decorator"`
		}
		if err := value.Decode(&entry); err != nil {
			return err
		}
		if !isIdentifier(entry.Name) {
			return fmt.Errorf("line %d: %w: name %q", value.Line, ErrInvalidMark, entry.Name)
		}
		m := domain.Marker{Name: entry.Name, Args: entry.Args}
		if entry.Decorator {
			s.mark = domain.MarkDecorator{Mark: m}
		} else {
			s.mark = m
		}
		return nil
	default:
		return fmt.Errorf("line %d: %w: expected string or mapping", value.Line, ErrInvalidMark)
	}
}

// ParseMarker reads "name" or "name(arg, ...)". Arguments are kept as source
// text, so testcaseid(12345) renders back exactly as written.
func ParseMarker(s string) (domain.Marker, error) {
	s = strings.TrimSpace(s)
	name, rest, hasArgs := strings.Cut(s, "(")
	name = strings.TrimSpace(name)
	if !isIdentifier(name) {
		return domain.Marker{}, fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}
	if !hasArgs {
		return domain.Marker{Name: name}, nil
	}
	if !strings.HasSuffix(rest, ")") {
		return domain.Marker{}, fmt.Errorf("%w: unclosed arguments in %q", ErrInvalidMark, s)
	}

	args, err := splitArgs(strings.TrimSuffix(rest, ")"))
	if err != nil {
		return domain.Marker{}, fmt.Errorf("%w: %q: %v", ErrInvalidMark, s, err)
	}
	return domain.Marker{Name: name, Args: args}, nil
}

// splitArgs splits on commas outside brackets and string literals
func splitArgs(s string) ([]any, error) {
	var args []any
	depth := 0
	var quote byte
	start := 0

	flush := func(end int) {
		if arg := strings.TrimSpace(s[start:end]); arg != "" {
			args = append(args, arg)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	if quote != 0 || depth != 0 {
		return nil, errors.New("unterminated argument")
	}
	flush(len(s))
	return args, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
