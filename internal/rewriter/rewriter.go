// Package rewriter regenerates the source of test functions with marker decorations.
//
// Singular tests get one decorator line per new marker directly above their
// def line. Parametrized functions get their parametrize decoration rebuilt
// with one param(...) entry per value, each carrying its markers.
package rewriter

import (
	"fmt"
	"strings"

	"imprint/internal/domain"
)

// Rewriter builds decorated function source. It never touches files.
type Rewriter struct {
	namespace string
	strict    bool
}

// New creates a Rewriter emitting decorations under namespace ("pytest").
// In strict mode a parametrized function without a parametrize decoration is an error
// instead of being left unchanged.
func New(namespace string, strict bool) *Rewriter {
	return &Rewriter{namespace: namespace, strict: strict}
}

// Strict reports whether missing parametrize decorations are errors
func (r *Rewriter) Strict() bool {
	return r.strict
}

// DecorateSingle returns item's source with markers added as decorators.
// Markers already on the item, or repeated in markers, are skipped. Each new
// decorator goes directly above the def line, so later markers end up closest
// to it. With no markers the source is returned unchanged.
func (r *Rewriter) DecorateSingle(item domain.TestItem, markers []domain.Marker) (string, error) {
	source := item.Source
	if len(markers) == 0 {
		return source, nil
	}

	pending := pendingMarkers(item.ExistingMarkers, markers)
	if len(pending) == 0 {
		return source, nil
	}

	lines := strings.Split(source, "\n")
	idx := defLine(lines, item.OriginalName, item.Location.Line-item.Location.Span.Start)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrDefinitionNotFound, item.Name)
	}
	indent := leadingSpace(lines[idx])

	out := make([]string, 0, len(lines)+len(pending))
	out = append(out, lines[:idx]...)
	for _, m := range pending {
		out = append(out, indent+FormatDecoration(r.namespace, m))
	}
	out = append(out, lines[idx:]...)

	return strings.Join(out, "\n"), nil
}

// DecorateParametrized returns the function source with its parametrize
// decoration rebuilt from the variants' markers. All variants must share the
// function and header (ErrHeaderMismatch otherwise). Values keep the header
// order; values without a variant render marks=[].
func (r *Rewriter) DecorateParametrized(variants []domain.Assigned) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("%w: no variants", ErrHeaderMismatch)
	}

	first := variants[0].Item
	if first.Parametrize == nil {
		return "", fmt.Errorf("%w: %s is not parametrized", ErrHeaderMismatch, first.Name)
	}
	for _, v := range variants[1:] {
		if v.Item.Function != first.Function || v.Item.Parametrize == nil || !v.Item.Parametrize.Equal(*first.Parametrize) {
			return "", fmt.Errorf("%w: %s and %s", ErrHeaderMismatch, first.Name, v.Item.Name)
		}
	}

	source := first.Source
	start, end, ok := locateHeader(source, r.namespace)
	if !ok {
		if r.strict {
			return "", fmt.Errorf("%w: %s", ErrNoParametrizeHeader, first.Function)
		}
		return source, nil
	}

	header := *first.Parametrize
	block := r.formatHeader(header, accumulate(header, variants), lineIndent(source, start))
	return source[:start] + block + source[end:], nil
}

// HasParametrizeHeader reports whether source contains a parametrize decoration
func (r *Rewriter) HasParametrizeHeader(source string) bool {
	_, _, ok := locateHeader(source, r.namespace)
	return ok
}

// accumulate collects markers per header value. Each accumulator starts with
// the value's existing marks and is extended by the first variant whose
// display name is <originalname>[<id>].
func accumulate(header domain.ParametrizeHeader, variants []domain.Assigned) [][]domain.Marker {
	marks := make([][]domain.Marker, len(header.Values))
	for i, value := range header.Values {
		marks[i] = append([]domain.Marker(nil), value.Marks...)
		if v, ok := variantFor(value, variants); ok {
			marks[i] = appendMissing(marks[i], v.Markers)
		}
	}
	return marks
}

func variantFor(value domain.ParamValue, variants []domain.Assigned) (domain.Assigned, bool) {
	for _, v := range variants {
		if v.Item.Name == v.Item.OriginalName+"["+value.ID+"]" {
			return v, true
		}
	}
	return domain.Assigned{}, false
}

func (r *Rewriter) formatHeader(header domain.ParametrizeHeader, marks [][]domain.Marker, indent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s.mark.parametrize(\"%s\", (\n", r.namespace, header.ParamName)
	for i, value := range header.Values {
		var args []string
		if value.Text != "" {
			args = append(args, value.Text)
		}
		if value.Kwargs != "" {
			args = append(args, value.Kwargs)
		}
		args = append(args, "marks=["+FormatMarkers(r.namespace, marks[i])+"]")
		fmt.Fprintf(&b, "%s    %s.param(%s),\n", indent, r.namespace, strings.Join(args, ", "))
	}
	b.WriteString(indent + ")")
	if header.Kwargs != "" {
		b.WriteString(", " + header.Kwargs)
	}
	b.WriteString(")")
	return b.String()
}

// defLine finds the "def <name>(" line, trying hint first
func defLine(lines []string, name string, hint int) int {
	if hint >= 0 && hint < len(lines) && isDef(lines[hint], name) {
		return hint
	}
	for i, line := range lines {
		if isDef(line, name) {
			return i
		}
	}
	return -1
}

func isDef(line, name string) bool {
	trimmed := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(trimmed, "async"); ok && strings.HasPrefix(rest, " ") {
		trimmed = strings.TrimSpace(rest)
	}
	rest, ok := strings.CutPrefix(trimmed, "def ")
	if !ok {
		return false
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), name)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(rest), "(")
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// lineIndent returns the whitespace before pos on its line, or "" if other text precedes it
func lineIndent(src string, pos int) string {
	lineStart := strings.LastIndexByte(src[:pos], '\n') + 1
	prefix := src[lineStart:pos]
	if strings.TrimSpace(prefix) != "" {
		return ""
	}
	return prefix
}
