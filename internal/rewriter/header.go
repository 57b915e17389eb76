package rewriter

import "strings"

// locateHeader finds the first "@<ns>.mark.parametrize(...)" decoration in src
// and returns its byte range. Whitespace between the parts of the decorator
// name is allowed. The closing parenthesis is found by bracket matching that
// skips strings and comments, so nested calls and brackets in values are handled.
func locateHeader(src, namespace string) (start, end int, ok bool) {
	needle := "@" + namespace + ".mark.parametrize"
	offset := 0
	for {
		i := strings.IndexByte(src[offset:], '@')
		if i < 0 {
			return 0, 0, false
		}
		start = offset + i
		offset = start + 1
		if !startsLine(src, start) {
			continue
		}
		open := strings.IndexByte(src[start:], '(')
		if open < 0 {
			return 0, 0, false
		}
		if decoratorName(src[start:start+open]) != needle {
			continue
		}
		if end, ok = matchBracket(src, start+open); ok {
			return start, end, true
		}
		return 0, 0, false
	}
}

// decoratorName drops whitespace and line continuations from a decorator name.
// A name running over a plain newline is not a decorator name.
func decoratorName(s string) string {
	s = strings.ReplaceAll(s, "\\\r\n", "")
	s = strings.ReplaceAll(s, "\\\n", "")
	if strings.ContainsRune(s, '\n') {
		return ""
	}
	return strings.Join(strings.Fields(s), "")
}

// matchBracket returns the index just past the bracket closing the one at open
func matchBracket(src string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '#':
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				return 0, false
			}
			i += nl
		case '\'', '"':
			next, ok := skipString(src, i)
			if !ok {
				return 0, false
			}
			i = next - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
			if depth < 0 {
				return 0, false
			}
		}
	}
	return 0, false
}

// skipString returns the index just past the string literal starting at i
func skipString(src string, i int) (int, bool) {
	quote := src[i]
	delim := string(quote)
	if strings.HasPrefix(src[i:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}

	for j := i + len(delim); j < len(src); j++ {
		switch {
		case src[j] == '\\':
			j++
		case src[j] == '\n' && len(delim) == 1:
			return 0, false
		case strings.HasPrefix(src[j:], delim):
			return j + len(delim), true
		}
	}
	return 0, false
}

// startsLine reports whether only whitespace precedes pos on its line
func startsLine(src string, pos int) bool {
	lineStart := strings.LastIndexByte(src[:pos], '\n') + 1
	return strings.TrimSpace(src[lineStart:pos]) == ""
}
