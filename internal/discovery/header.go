package discovery

import (
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"imprint/internal/domain"
)

var (
	errNoArgValues   = errors.New("parametrize needs argnames and argvalues")
	errNamesNotConst = errors.New("parametrize argnames must be a string literal")
	errValuesNotList = errors.New("parametrize argvalues must be a list or tuple literal")
)

// parseHeader reads @<ns>.mark.parametrize("<names>", [<values>], ids=[...], ...).
// A literal ids list is folded into the values as id="..." so a rebuilt header
// keeps the same ids. Other keyword arguments are kept as source text.
func (fp *fileParser) parseHeader(call *sitter.Node) (*domain.ParametrizeHeader, error) {
	argList := call.ChildByFieldName("arguments")
	if argList == nil {
		return nil, errNoArgValues
	}

	var positional []*sitter.Node
	var extra []*sitter.Node
	keywords := make(map[string]*sitter.Node)
	for _, arg := range namedArgs(argList) {
		if arg.Type() != "keyword_argument" {
			positional = append(positional, arg)
			continue
		}
		name, value := arg.ChildByFieldName("name"), arg.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		switch key := fp.text(name); key {
		case "argnames", "argvalues":
			keywords[key] = value
		case "ids":
			if value.Type() == "list" || value.Type() == "tuple" {
				keywords[key] = value
			} else {
				extra = append(extra, arg)
			}
		default:
			extra = append(extra, arg)
		}
	}

	namesNode, valuesNode := keywords["argnames"], keywords["argvalues"]
	if len(positional) > 0 {
		namesNode = positional[0]
	}
	if len(positional) > 1 {
		valuesNode = positional[1]
	}
	if namesNode == nil || valuesNode == nil {
		return nil, errNoArgValues
	}

	paramName, ok := stringLiteral(fp.text(namesNode))
	if !ok {
		return nil, errNamesNotConst
	}
	argnames := splitNames(paramName)
	if len(argnames) == 0 {
		return nil, errNamesNotConst
	}
	if valuesNode.Type() != "list" && valuesNode.Type() != "tuple" {
		return nil, errValuesNotList
	}

	var idNodes []*sitter.Node
	if ids := keywords["ids"]; ids != nil {
		idNodes = namedArgs(ids)
	}

	kwargs := make([]string, len(extra))
	for i, arg := range extra {
		kwargs[i] = fp.text(arg)
	}

	header := &domain.ParametrizeHeader{ParamName: paramName, Kwargs: strings.Join(kwargs, ", ")}
	for i, element := range namedArgs(valuesNode) {
		value, explicit := fp.parseValue(element, argnames, i)
		// An id given to param(...) wins over the ids list
		if !explicit && i < len(idNodes) {
			if id, ok := fp.stringID(idNodes[i]); ok {
				value.ID = id
				value.Kwargs = joinKwargs("id="+fp.text(idNodes[i]), value.Kwargs)
			}
		}
		header.Values = append(header.Values, value)
	}
	disambiguate(header.Values)

	return header, nil
}

// parseValue reads one argvalues element. explicit reports an id="..." given to param(...).
func (fp *fileParser) parseValue(element *sitter.Node, argnames []string, index int) (value domain.ParamValue, explicit bool) {
	if element.Type() == "call" {
		if fn := element.ChildByFieldName("function"); fn != nil && compact(fp.text(fn)) == fp.namespace+".param" {
			return fp.parseParam(element, argnames, index)
		}
	}

	if len(argnames) > 1 && (element.Type() == "tuple" || element.Type() == "list") {
		return fp.joinValues(namedArgs(element), argnames, index), false
	}

	return domain.ParamValue{
		Text: fp.text(element),
		ID:   fp.idFor(element, argnames[0], index),
	}, false
}

// parseParam reads <ns>.param(v..., marks=[...], id="x", **other)
func (fp *fileParser) parseParam(call *sitter.Node, argnames []string, index int) (domain.ParamValue, bool) {
	var positional []*sitter.Node
	var value domain.ParamValue
	var kwargs []string
	explicitID, explicit := "", false

	if args := call.ChildByFieldName("arguments"); args != nil {
		for _, arg := range namedArgs(args) {
			if arg.Type() != "keyword_argument" {
				positional = append(positional, arg)
				continue
			}
			name, val := arg.ChildByFieldName("name"), arg.ChildByFieldName("value")
			if name == nil || val == nil {
				continue
			}
			switch fp.text(name) {
			case "marks":
				value.Marks = fp.parseMarkList(val)
			case "id":
				if s, ok := fp.stringID(val); ok {
					explicitID, explicit = s, true
				}
				kwargs = append(kwargs, fp.text(arg))
			default:
				kwargs = append(kwargs, fp.text(arg))
			}
		}
	}

	joined := fp.joinValues(positional, argnames, index)
	value.Text = joined.Text
	value.ID = joined.ID
	if explicit {
		value.ID = explicitID
	}
	value.Kwargs = strings.Join(kwargs, ", ")
	return value, explicit
}

func (fp *fileParser) parseMarkList(node *sitter.Node) []domain.Marker {
	if node.Type() != "list" && node.Type() != "tuple" {
		if m, ok := fp.parseMarker(node); ok {
			return []domain.Marker{m}
		}
		return nil
	}
	var marks []domain.Marker
	for _, el := range namedArgs(node) {
		if m, ok := fp.parseMarker(el); ok {
			marks = append(marks, m)
		}
	}
	return marks
}

// joinValues renders several positional values as one param entry with a "-" joined id
func (fp *fileParser) joinValues(nodes []*sitter.Node, argnames []string, index int) domain.ParamValue {
	texts := make([]string, len(nodes))
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		argname := argnames[len(argnames)-1]
		if i < len(argnames) {
			argname = argnames[i]
		}
		texts[i] = fp.text(n)
		ids[i] = fp.idFor(n, argname, index)
	}
	return domain.ParamValue{Text: strings.Join(texts, ", "), ID: strings.Join(ids, "-")}
}

// idFor mirrors how pytest derives ids: literals render as themselves,
// strings without quotes and ASCII escaped, anything else as <argname><index>.
func (fp *fileParser) idFor(node *sitter.Node, argname string, index int) string {
	text := fp.text(node)
	switch node.Type() {
	case "integer", "float", "true", "false", "none":
		return text
	case "unary_operator":
		if operand := node.ChildByFieldName("argument"); operand != nil {
			if t := operand.Type(); t == "integer" || t == "float" {
				return compact(text)
			}
		}
	case "string", "concatenated_string":
		if id, ok := fp.stringID(node); ok {
			return id
		}
	}
	return fmt.Sprintf("%s%d", argname, index)
}

// stringID returns the escaped id of a plain or implicitly concatenated string literal
func (fp *fileParser) stringID(node *sitter.Node) (string, bool) {
	raw, ok := fp.stringValue(node)
	if !ok {
		return "", false
	}
	return asciiEscaped(raw), true
}

func (fp *fileParser) stringValue(node *sitter.Node) (string, bool) {
	switch node.Type() {
	case "string":
		text := fp.text(node)
		if isFormatString(text) {
			return "", false
		}
		return stringLiteral(text)
	case "concatenated_string":
		var b strings.Builder
		for _, part := range namedArgs(node) {
			s, ok := fp.stringValue(part)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

// asciiEscaped escapes non-ASCII and non-printable runes like Python's unicode_escape
func asciiEscaped(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || (r >= 0x7f && r <= 0xff):
			fmt.Fprintf(&b, `\x%02x`, r)
		case r > 0xffff:
			fmt.Fprintf(&b, `\U%08x`, r)
		case r > 0xff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func joinKwargs(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// disambiguate suffixes duplicate ids with a counter the way pytest does
func disambiguate(values []domain.ParamValue) {
	seen := make(map[string]int)
	for _, v := range values {
		seen[v.ID]++
	}
	counters := make(map[string]int)
	for i, v := range values {
		if seen[v.ID] < 2 {
			continue
		}
		suffix := ""
		if v.ID != "" && v.ID[len(v.ID)-1] >= '0' && v.ID[len(v.ID)-1] <= '9' {
			suffix = "_"
		}
		values[i].ID = fmt.Sprintf("%s%s%d", v.ID, suffix, counters[v.ID])
		counters[v.ID]++
	}
}

// splitNames splits "a, b" into ["a", "b"]
func splitNames(names string) []string {
	var out []string
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// stringLiteral returns the content of a Python string literal
func stringLiteral(text string) (string, bool) {
	body := strings.TrimLeft(text, "rRbBuUfF")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(quote) && strings.HasPrefix(body, quote) && strings.HasSuffix(body, quote) {
			return body[len(quote) : len(body)-len(quote)], true
		}
	}
	return "", false
}

func isFormatString(text string) bool {
	prefix := text[:len(text)-len(strings.TrimLeft(text, "rRbBuUfF"))]
	return strings.ContainsAny(prefix, "fF")
}
