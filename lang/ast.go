package lang

import (
	"strings"
)

// Position is a location in source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Statement is a benchDL statement: name args [":" block].
// Nodes produced by the parser are never modified afterwards and may be
// shared between goroutines.
type Statement struct {
	Name string
	Args Args
	Body []*Statement
	Pos  Position
}

// ArgsKind selects the shape of a statement's argument group.
type ArgsKind int

const (
	// ArgsNone is an absent or empty argument group.
	ArgsNone ArgsKind = iota

	// ArgsPositional is a comma-separated list of terms.
	ArgsPositional

	// ArgsMap is a comma-separated list of key = value pairs.
	ArgsMap
)

// String returns a string representation of the argument kind.
func (k ArgsKind) String() string {
	switch k {
	case ArgsNone:
		return "None"

	case ArgsPositional:
		return "Positional"

	case ArgsMap:
		return "Map"

	default:
		return "Unknown"
	}
}

// Args is a statement's parenthesized argument group. Terms is set for
// ArgsPositional and Pairs for ArgsMap.
type Args struct {
	Kind  ArgsKind
	Terms []Term
	Pairs []Pair
}

// Len returns the number of arguments.
func (a Args) Len() int {
	switch a.Kind {
	case ArgsPositional:
		return len(a.Terms)

	case ArgsMap:
		return len(a.Pairs)

	default:
		return 0
	}
}

// Positional returns the i'th positional argument, or nil if there is none.
func (a Args) Positional(i int) Term {
	if a.Kind != ArgsPositional || i < 0 || i >= len(a.Terms) {
		return nil
	}

	return a.Terms[i]
}

// Lookup returns the value of the first pair whose key text equals key.
func (a Args) Lookup(key string) (Term, bool) {
	for _, p := range a.Pairs {
		if Text(p.Key) == key {
			return p.Value, true
		}
	}

	return nil, false
}

// Pair is a key = value argument.
type Pair struct {
	Key   Term
	Value Term
}

// Term is one of *Atom, *Number, *UnitNumber, *String, *List, *Comparison
// or *Statement.
type Term interface {
	Position() Position
	term()
}

// Atom is a bare lowercase identifier or a single-quoted literal.
type Atom struct {
	Name   string
	Quoted bool
	Pos    Position
}

// Number is a numeric literal. Text holds the digits with any decimal part
// and exponent; Suffix holds the optional G, K or M multiplier.
type Number struct {
	Text   string
	Suffix string
	Pos    Position
}

// UnitNumber is a number or call followed by a unit, e.g. "5 min" or
// numvar("rate") rps.
type UnitNumber struct {
	Value Term // *Number or *Statement
	Units string
	Pos   Position
}

// String is a double-quoted literal with escapes resolved.
type String struct {
	Value string
	Pos   Position
}

// List is a bracketed sequence of terms.
type List struct {
	Items []Term
	Pos   Position
}

// Comparison compares two strings or numbers.
type Comparison struct {
	Left  Term
	Op    string
	Right Term
	Pos   Position
}

// Comparison operators, longest first so prefixes do not shadow them.
var comparisonOps = []string{"<=", ">=", "==", "<", ">"}

func (t *Atom) Position() Position       { return t.Pos }
func (t *Number) Position() Position     { return t.Pos }
func (t *UnitNumber) Position() Position { return t.Pos }
func (t *String) Position() Position     { return t.Pos }
func (t *List) Position() Position       { return t.Pos }
func (t *Comparison) Position() Position { return t.Pos }
func (s *Statement) Position() Position  { return s.Pos }

func (*Atom) term()       {}
func (*Number) term()     {}
func (*UnitNumber) term() {}
func (*String) term()     {}
func (*List) term()       {}
func (*Comparison) term() {}
func (*Statement) term()  {}

// Text renders a term as plain text. This is the form used for variable
// names and default values: strings lose their quotes, atoms are verbatim,
// and composite terms use benchDL notation.
func Text(t Term) string {
	var sb strings.Builder

	writeText(&sb, t, false)

	return sb.String()
}

// Source renders a term in benchDL notation, quoting strings and quoted
// atoms so the result parses back to an equivalent term.
func Source(t Term) string {
	var sb strings.Builder

	writeText(&sb, t, true)

	return sb.String()
}

func writeText(sb *strings.Builder, t Term, quote bool) {
	switch t := t.(type) {
	case nil:

	case *Atom:
		if quote && t.Quoted {
			sb.WriteString("'" + t.Name + "'")
		} else {
			sb.WriteString(t.Name)
		}

	case *Number:
		sb.WriteString(t.Text)
		sb.WriteString(t.Suffix)

	case *UnitNumber:
		writeText(sb, t.Value, quote)
		sb.WriteByte(' ')
		sb.WriteString(t.Units)

	case *String:
		if quote {
			writeQuoted(sb, t.Value)
		} else {
			sb.WriteString(t.Value)
		}

	case *List:
		sb.WriteByte('[')

		for i, item := range t.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeText(sb, item, quote)
		}

		sb.WriteByte(']')

	case *Comparison:
		writeText(sb, t.Left, quote)
		sb.WriteString(" " + t.Op + " ")
		writeText(sb, t.Right, quote)

	case *Statement:
		writeStatement(sb, t, quote)
	}
}

func writeStatement(sb *strings.Builder, s *Statement, quote bool) {
	if quote && !isAtomName(s.Name) {
		sb.WriteString("'" + s.Name + "'")
	} else {
		sb.WriteString(s.Name)
	}

	switch s.Args.Kind {
	case ArgsPositional:
		sb.WriteByte('(')

		for i, t := range s.Args.Terms {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeText(sb, t, quote)
		}

		sb.WriteByte(')')

	case ArgsMap:
		sb.WriteByte('(')

		for i, p := range s.Args.Pairs {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeText(sb, p.Key, quote)
			sb.WriteString(" = ")
			writeText(sb, p.Value, quote)
		}

		sb.WriteByte(')')

	default:
		sb.WriteString("()")
	}
}

// writeQuoted writes s as a double-quoted string using only the escapes
// the parser resolves.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')
}

// isAtomName reports whether s is a valid unquoted atom.
func isAtomName(s string) bool {
	if s == "" || !isAtomStart(rune(s[0])) {
		return false
	}

	for _, r := range s[1:] {
		if !isAtomContinue(r) {
			return false
		}
	}

	return true
}
