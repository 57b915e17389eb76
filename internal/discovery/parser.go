package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"go.uber.org/zap"

	"imprint/internal/domain"
)

// Parser extracts pytest test items from Python test files.
// It uses Tree-sitter so decorators and definitions are located by their
// syntax nodes rather than by text matching.
type Parser struct {
	namespace string
	logger    *zap.Logger
}

// NewParser creates a new Parser for decorations under namespace (usually "pytest")
func NewParser(namespace string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{namespace: namespace, logger: logger}
}

// FindTestItems finds all test items in a test file
func (p *Parser) FindTestItems(ctx context.Context, filePath string) ([]domain.TestItem, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return p.ParseSource(ctx, filePath, content)
}

// ParseSource extracts test items from Python source. Module level functions
// named test* and test* methods of Test* classes are collected.
func (p *Parser) ParseSource(ctx context.Context, filePath string, content []byte) ([]domain.TestItem, error) {
	// sitter.Parser is not safe for concurrent use, so each call gets its own
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	defer tree.Close()

	fp := &fileParser{
		Parser:  p,
		path:    filePath,
		content: content,
		lines:   strings.Split(string(content), "\n"),
	}
	fp.walk(tree.RootNode(), "")

	p.logger.Debug("parsed test file",
		zap.String("file", filePath),
		zap.Int("items", len(fp.items)))
	return fp.items, nil
}

// fileParser holds per-file state while walking one syntax tree
type fileParser struct {
	*Parser
	path    string
	content []byte
	lines   []string
	items   []domain.TestItem
}

func (fp *fileParser) text(n *sitter.Node) string {
	return string(fp.content[n.StartByte():n.EndByte()])
}

func (fp *fileParser) walk(node *sitter.Node, class string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "function_definition":
			fp.collectFunction(child, child, nil, class)

		case "class_definition":
			fp.collectClass(child, class)

		case "decorated_definition":
			def := child.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			var decorators []*sitter.Node
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); inner.Type() == "decorator" {
					decorators = append(decorators, inner)
				}
			}
			switch def.Type() {
			case "function_definition":
				fp.collectFunction(def, child, decorators, class)
			case "class_definition":
				fp.collectClass(def, class)
			}
		}
	}
}

func (fp *fileParser) collectClass(node *sitter.Node, outer string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := fp.text(nameNode)
	if !strings.HasPrefix(name, "Test") {
		return
	}
	if outer != "" {
		name = outer + "::" + name
	}
	if body := node.ChildByFieldName("body"); body != nil {
		fp.walk(body, name)
	}
}

// collectFunction turns a test function into one item, or one item per
// parametrize value. outer is the decorated_definition when decorators exist.
func (fp *fileParser) collectFunction(def, outer *sitter.Node, decorators []*sitter.Node, class string) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := fp.text(nameNode)
	if !strings.HasPrefix(name, "test") {
		return
	}

	qualname := name
	if class != "" {
		qualname = class + "::" + name
	}

	var existing []domain.Marker
	var headers []*domain.ParametrizeHeader
	for _, decorator := range decorators {
		if decorator.NamedChildCount() == 0 {
			continue
		}
		expr := decorator.NamedChild(0)
		if fp.isParametrize(expr) {
			header, err := fp.parseHeader(expr)
			if err != nil {
				fp.logger.Warn("skipping test with unsupported parametrize header",
					zap.String("file", fp.path),
					zap.String("test", qualname),
					zap.Error(err))
				return
			}
			headers = append(headers, header)
			continue
		}
		if m, ok := fp.parseMarker(expr); ok {
			existing = append(existing, m)
		}
	}

	if len(headers) > 1 {
		fp.logger.Warn("skipping test with stacked parametrize decorators",
			zap.String("file", fp.path),
			zap.String("test", qualname))
		return
	}

	span := fp.span(outer)
	item := domain.TestItem{
		Name:         name,
		OriginalName: name,
		Function:     domain.NewFunctionID(fp.path, qualname),
		Location: domain.Location{
			File: fp.path,
			Line: int(def.StartPoint().Row) + 1,
			Span: span,
		},
		Source:          strings.Join(fp.lines[span.Start-1:span.End], "\n"),
		ExistingMarkers: existing,
	}

	if len(headers) == 0 {
		fp.items = append(fp.items, item)
		return
	}

	header := headers[0]
	for _, value := range header.Values {
		variant := item
		variant.Name = fmt.Sprintf("%s[%s]", name, value.ID)
		variant.Parametrize = header
		fp.items = append(fp.items, variant)
	}
}

// span returns the full lines covered by node, trimming a trailing empty line
func (fp *fileParser) span(node *sitter.Node) domain.Span {
	start := int(node.StartPoint().Row) + 1
	end := int(node.EndPoint().Row) + 1
	if node.EndPoint().Column == 0 && end > start {
		end--
	}
	if end > len(fp.lines) {
		end = len(fp.lines)
	}
	return domain.Span{Start: start, End: end}
}

func (fp *fileParser) isParametrize(expr *sitter.Node) bool {
	if expr.Type() != "call" {
		return false
	}
	fn := expr.ChildByFieldName("function")
	return fn != nil && compact(fp.text(fn)) == fp.namespace+".mark.parametrize"
}

// parseMarker reads @<ns>.mark.<name> and @<ns>.mark.<name>(args)
func (fp *fileParser) parseMarker(expr *sitter.Node) (domain.Marker, bool) {
	prefix := fp.namespace + ".mark."

	switch expr.Type() {
	case "attribute":
		ref := compact(fp.text(expr))
		if !strings.HasPrefix(ref, prefix) {
			return domain.Marker{}, false
		}
		return domain.Marker{Name: strings.TrimPrefix(ref, prefix)}, true

	case "call":
		fn := expr.ChildByFieldName("function")
		if fn == nil {
			return domain.Marker{}, false
		}
		ref := compact(fp.text(fn))
		if !strings.HasPrefix(ref, prefix) {
			return domain.Marker{}, false
		}
		m := domain.Marker{Name: strings.TrimPrefix(ref, prefix)}
		if args := expr.ChildByFieldName("arguments"); args != nil {
			for _, arg := range namedArgs(args) {
				m.Args = append(m.Args, fp.text(arg))
			}
		}
		return m, true
	}

	return domain.Marker{}, false
}

// compact drops whitespace so "pytest . mark . x" matches "pytest.mark.x"
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// namedArgs returns argument nodes without comments
func namedArgs(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}
