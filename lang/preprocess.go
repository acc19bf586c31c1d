package lang

import (
	"slices"
	"strings"
)

// Block delimiters inserted by the preprocessor. Both are zero-width for the
// parser's column accounting, so positions refer to the original text.
const (
	BlockBegin rune = '\uE000'
	BlockEnd   rune = '\uE001'
)

// Preprocessor rewrites indentation-sensitive text into explicitly delimited
// blocks. Lines that begin inside an open string or bracket do not take part
// in indentation tracking, nor do blank and comment-only lines.
type Preprocessor struct {
	Comment   rune   // starts a comment running to end of line
	Quotes    string // characters that open and close a quoted span
	RawQuotes string // subset of Quotes with no escape processing
	Open      string // opening brackets
	Close     string // closing brackets
	Escape    rune   // escapes the next character inside quotes
}

// DefaultPreprocessor is configured for benchDL.
var DefaultPreprocessor = Preprocessor{
	Comment:   '#',
	Quotes:    `"'`,
	RawQuotes: `'`,
	Open:      "([",
	Close:     ")]",
	Escape:    '\\',
}

// Preprocess runs [DefaultPreprocessor] over text.
func Preprocess(text string) (string, error) {
	return DefaultPreprocessor.Process(text)
}

// Process inserts a [BlockBegin] before every line indented deeper than the
// enclosing block and one [BlockEnd] per closed block before every line
// indented shallower. Blocks still open at end of input are closed.
func (p Preprocessor) Process(text string) (string, error) {
	if strings.ContainsRune(text, BlockBegin) ||
		strings.ContainsRune(text, BlockEnd) {
		return "", ErrReservedRune
	}

	var (
		out   strings.Builder
		stack = []int{0}
		quote rune
		depth int
	)

	out.Grow(len(text) + 16)

	for i, line := range strings.SplitAfter(text, "\n") {
		if quote == 0 && depth == 0 && p.significant(line) {
			width := indentWidth(line)

			switch top := stack[len(stack)-1]; {
			case width > top:
				stack = append(stack, width)

				out.WriteRune(BlockBegin)

			case width < top:
				for len(stack) > 1 && width < stack[len(stack)-1] {
					stack = stack[:len(stack)-1]

					out.WriteRune(BlockEnd)
				}

				if stack[len(stack)-1] != width {
					return "", &IndentError{
						Line:  i + 1,
						Width: width,
						Open:  slices.Clone(stack),
					}
				}
			}
		}

		out.WriteString(line)

		quote, depth = p.scan(line, quote, depth)
	}

	for len(stack) > 1 {
		stack = stack[:len(stack)-1]

		out.WriteRune(BlockEnd)
	}

	return out.String(), nil
}

// significant reports whether line carries a statement, i.e. it is neither
// blank nor a comment.
func (p Preprocessor) significant(line string) bool {
	content := strings.TrimSpace(line)
	if content == "" {
		return false
	}

	return p.Comment == 0 || !strings.HasPrefix(content, string(p.Comment))
}

// scan advances the string and bracket state across one line.
func (p Preprocessor) scan(line string, quote rune, depth int) (rune, int) {
	escaped := false

	for _, r := range line {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == p.Escape && !strings.ContainsRune(p.RawQuotes, quote):
				escaped = true
			case r == quote:
				quote = 0
			}

			continue
		}

		switch {
		case p.Comment != 0 && r == p.Comment:
			return quote, depth
		case strings.ContainsRune(p.Quotes, r):
			quote = r
		case strings.ContainsRune(p.Open, r):
			depth++
		case strings.ContainsRune(p.Close, r):
			if depth > 0 {
				depth--
			}
		}
	}

	return quote, depth
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
