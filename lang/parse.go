package lang

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/benchdl/log"
)

// Parse parses benchDL source text with a default [Parser].
func Parse(ctx context.Context, text string) ([]*Statement, error) {
	return defaultParser.Parse(ctx, text)
}

// defaultParser has no cache and no logger, so it carries no mutable state.
var defaultParser = NewParser()

// Parser turns benchDL source into statements. A Parser is immutable after
// construction and safe for concurrent use.
type Parser struct {
	pre    Preprocessor
	logger log.Logger
	cache  *parseCache
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithPreprocessor replaces [DefaultPreprocessor].
func WithPreprocessor(pre Preprocessor) Option {
	return func(p *Parser) {
		p.pre = pre
	}
}

// WithCache keeps the results of the last size distinct sources.
// A size of zero or less disables caching.
func WithCache(size int) Option {
	return func(p *Parser) {
		p.cache = newParseCache(size)
	}
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{pre: DefaultPreprocessor}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse preprocesses and parses text. Failures are a *[SyntaxError], an
// *[IndentError], or [ErrReservedRune].
func (p *Parser) Parse(ctx context.Context, text string) ([]*Statement, error) {
	p.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(text)))

	if script, err, ok := p.cache.get(text); ok {
		p.logger.TraceContext(ctx, "parse cache hit",
			slog.Int("statement_count", len(script)))

		return script, err
	}

	script, err := p.parse(ctx, text)

	p.cache.add(text, script, err)

	return script, err
}

func (p *Parser) parse(ctx context.Context, text string) ([]*Statement, error) {
	blocks, err := p.pre.Process(text)
	if err != nil {
		p.logger.TraceContext(ctx, "preprocess failed",
			slog.String("error", err.Error()))

		return nil, err
	}

	return p.ParseBlocks(ctx, blocks)
}

// ParseBlocks parses text that already carries [BlockBegin] and [BlockEnd]
// markers.
func (p *Parser) ParseBlocks(
	ctx context.Context,
	text string,
) ([]*Statement, error) {
	s := newScanner(text)

	script, ok := s.parseEntry()
	if !ok {
		err := s.syntaxError()

		p.logger.TraceContext(ctx, "parse failed",
			slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(script)))

	return script, nil
}

// scanner holds the state of a single parse.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int

	// Farthest failure, reported when the parse fails.
	failAt   Position
	expected []string
	found    string

	// Nested statements parsed in term position, by offset. Ordered choice
	// revisits them often, so each is parsed once.
	memo map[int]memoStatement
}

type mark struct{ pos, line, col int }

type memoStatement struct {
	stmt *Statement
	end  mark
	ok   bool
}

func newScanner(text string) *scanner {
	return &scanner{
		input:  []byte(text),
		line:   1,
		col:    1,
		failAt: Position{Offset: -1},
		memo:   make(map[int]memoStatement),
	}
}

// entry = _ (statement _)* EOF.
func (s *scanner) parseEntry() ([]*Statement, bool) {
	script := make([]*Statement, 0)

	s.skip()

	for !s.eof() {
		st, ok := s.parseStatement(false)
		if !ok {
			s.fail("end of input")

			return nil, false
		}

		script = append(script, st)

		s.skip()
	}

	return script, true
}

// statement = multiline / single
// multiline = atom args ":" BEGIN (statement _)+ END
// single    = atom args
//
// In term position the argument group is mandatory and only the single form
// is accepted.
func (s *scanner) parseStatement(inTerm bool) (*Statement, bool) {
	start := s.mark()

	if inTerm {
		if m, ok := s.memo[start.pos]; ok {
			if m.ok {
				s.reset(m.end)
			}

			return m.stmt, m.ok
		}
	}

	st, ok := s.statement(inTerm)
	if !ok {
		s.reset(start)
	}

	if inTerm {
		s.memo[start.pos] = memoStatement{stmt: st, end: s.mark(), ok: ok}
	}

	return st, ok
}

func (s *scanner) statement(inTerm bool) (*Statement, bool) {
	pos := s.position()

	name, ok := s.parseAtom()
	if !ok {
		return nil, false
	}

	afterName := s.mark()

	s.skip()

	args, ok := s.parseArgs()
	if !ok {
		if inTerm {
			return nil, false
		}

		s.reset(afterName)
	}

	st := &Statement{Name: name.Name, Args: args, Pos: pos}

	if inTerm {
		return st, true
	}

	afterArgs := s.mark()

	if body, ok := s.parseBlock(); ok {
		st.Body = body

		return st, true
	}

	s.reset(afterArgs)

	return st, true
}

// parseBlock parses ":" BEGIN (statement _)+ END.
func (s *scanner) parseBlock() ([]*Statement, bool) {
	s.skip()

	if !s.expect(':') {
		s.fail(`":"`)

		return nil, false
	}

	s.skip()

	if !s.expect(BlockBegin) {
		s.fail("indented block")

		return nil, false
	}

	s.skip()

	var body []*Statement

	for {
		st, ok := s.parseStatement(false)
		if !ok {
			break
		}

		body = append(body, st)

		s.skip()
	}

	if len(body) == 0 {
		return nil, false
	}

	if !s.expect(BlockEnd) {
		s.fail("end of block")

		return nil, false
	}

	return body, true
}

// args = "(" kv ("," kv)* ")" / "(" term ("," term)* ")" / "(" ")".
func (s *scanner) parseArgs() (Args, bool) {
	start := s.mark()

	if !s.expect('(') {
		s.fail(`"("`)

		return Args{}, false
	}

	s.skip()

	if s.expect(')') {
		return Args{Kind: ArgsNone}, true
	}

	inner := s.mark()

	if pairs, ok := s.parsePairs(); ok {
		return Args{Kind: ArgsMap, Pairs: pairs}, true
	}

	s.reset(inner)

	if terms, ok := s.parseSequence(')'); ok {
		return Args{Kind: ArgsPositional, Terms: terms}, true
	}

	s.reset(start)

	return Args{}, false
}

// parsePairs parses kv ("," kv)* ")" where kv = term "=" term.
func (s *scanner) parsePairs() ([]Pair, bool) {
	var pairs []Pair

	for {
		key, ok := s.parseTerm()
		if !ok {
			return nil, false
		}

		s.skip()

		if !s.expect('=') {
			s.fail(`"="`)

			return nil, false
		}

		s.skip()

		value, ok := s.parseTerm()
		if !ok {
			return nil, false
		}

		pairs = append(pairs, Pair{Key: key, Value: value})

		s.skip()

		if !s.continueSequence() {
			return pairs, s.closeSequence(')')
		}
	}
}

// parseSequence parses term ("," term)* followed by the closing delimiter.
func (s *scanner) parseSequence(closing rune) ([]Term, bool) {
	var terms []Term

	for {
		t, ok := s.parseTerm()
		if !ok {
			return nil, false
		}

		terms = append(terms, t)

		s.skip()

		if !s.continueSequence() {
			return terms, s.closeSequence(closing)
		}
	}
}

// continueSequence consumes a separating comma and the whitespace after it.
func (s *scanner) continueSequence() bool {
	if s.expect(',') {
		s.skip()

		return true
	}

	s.fail(`","`)

	return false
}

func (s *scanner) closeSequence(closing rune) bool {
	if s.expect(closing) {
		return true
	}

	s.fail(strconv.QuoteRune(closing))

	return false
}

// term = unumber / comparison / single / list / string / atom / number.
func (s *scanner) parseTerm() (Term, bool) {
	alternatives := [...]func() (Term, bool){
		s.parseUnitNumber,
		s.parseComparison,
		func() (Term, bool) { return s.parseStatement(true) },
		s.parseList,
		func() (Term, bool) { return s.parseString() },
		func() (Term, bool) { return s.parseAtom() },
		func() (Term, bool) { return s.parseNumber() },
	}

	start := s.mark()

	for _, alt := range alternatives {
		if t, ok := alt(); ok {
			return t, true
		}

		s.reset(start)
	}

	return nil, false
}

// unumber = (number / single) _ atom.
func (s *scanner) parseUnitNumber() (Term, bool) {
	pos := s.position()

	var value Term

	if n, ok := s.parseNumber(); ok {
		value = n
	} else if st, ok := s.parseStatement(true); ok {
		value = st
	} else {
		return nil, false
	}

	s.skip()

	units, ok := s.parseAtom()
	if !ok {
		return nil, false
	}

	return &UnitNumber{Value: value, Units: units.Name, Pos: pos}, true
}

// comparison = (string / number) op (string / number).
func (s *scanner) parseComparison() (Term, bool) {
	pos := s.position()

	left, ok := s.parseOperand()
	if !ok {
		return nil, false
	}

	s.skip()

	op := ""

	for _, candidate := range comparisonOps {
		if s.expectString(candidate) {
			op = candidate

			break
		}
	}

	if op == "" {
		s.fail("comparison operator")

		return nil, false
	}

	s.skip()

	right, ok := s.parseOperand()
	if !ok {
		return nil, false
	}

	return &Comparison{Left: left, Op: op, Right: right, Pos: pos}, true
}

func (s *scanner) parseOperand() (Term, bool) {
	start := s.mark()

	if str, ok := s.parseString(); ok {
		return str, true
	}

	s.reset(start)

	if n, ok := s.parseNumber(); ok {
		return n, true
	}

	s.reset(start)

	return nil, false
}

// list = "[" term ("," term)* "]" / "[" "]".
func (s *scanner) parseList() (Term, bool) {
	pos := s.position()

	if !s.expect('[') {
		s.fail(`"["`)

		return nil, false
	}

	s.skip()

	if s.expect(']') {
		return &List{Items: []Term{}, Pos: pos}, true
	}

	items, ok := s.parseSequence(']')
	if !ok {
		return nil, false
	}

	return &List{Items: items, Pos: pos}, true
}

// atom = [a-z] [0-9a-zA-Z_]* / "'" [^']* "'".
func (s *scanner) parseAtom() (*Atom, bool) {
	pos := s.position()

	switch r := s.peek(); {
	case isAtomStart(r):
		start := s.pos

		s.advance()

		for !s.eof() && isAtomContinue(s.peek()) {
			s.advance()
		}

		return &Atom{Name: string(s.input[start:s.pos]), Pos: pos}, true

	case r == '\'':
		start := s.mark()

		s.advance()

		begin := s.pos

		for !s.eof() && s.peek() != '\'' {
			s.advance()
		}

		if s.eof() {
			s.fail(`"'"`)
			s.reset(start)

			return nil, false
		}

		name := string(s.input[begin:s.pos])

		s.advance()

		return &Atom{Name: name, Quoted: true, Pos: pos}, true
	}

	s.fail("identifier")

	return nil, false
}

// number = [0-9]+ ("." [0-9]+)? ("e" "-"? [0-9]+)? [GKM]?.
func (s *scanner) parseNumber() (*Number, bool) {
	pos := s.position()
	start := s.pos

	if !s.digits() {
		s.fail("number")

		return nil, false
	}

	if s.peek() == '.' {
		m := s.mark()

		s.advance()

		if !s.digits() {
			s.reset(m)
		}
	}

	if s.peek() == 'e' {
		m := s.mark()

		s.advance()
		s.expect('-')

		if !s.digits() {
			s.reset(m)
		}
	}

	n := &Number{Text: string(s.input[start:s.pos]), Pos: pos}

	if r := s.peek(); r == 'G' || r == 'K' || r == 'M' {
		n.Suffix = string(r)

		s.advance()
	}

	return n, true
}

func (s *scanner) digits() bool {
	start := s.pos

	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}

	return s.pos > start
}

// string = '"' chars '"' with backslash escapes.
func (s *scanner) parseString() (*String, bool) {
	pos := s.position()
	start := s.mark()

	if !s.expect('"') {
		s.fail("string")

		return nil, false
	}

	var sb strings.Builder

	for {
		if s.eof() {
			s.fail(`"\""`)
			s.reset(start)

			return nil, false
		}

		r := s.peek()
		s.advance()

		switch r {
		case '"':
			return &String{Value: sb.String(), Pos: pos}, true

		case '\\':
			if s.eof() {
				continue
			}

			sb.WriteRune(unescape(s.peek()))
			s.advance()

		default:
			sb.WriteRune(r)
		}
	}
}

// unescape resolves the character following a backslash. Unknown escapes
// stand for the character itself.
func unescape(r rune) rune {
	switch r {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	default:
		return r
	}
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size

	switch r {
	case '\n':
		s.line++
		s.col = 1
	case BlockBegin, BlockEnd:
		// zero-width
	default:
		s.col++
	}
}

func (s *scanner) expect(ch rune) bool {
	if !s.eof() && s.peek() == ch {
		s.advance()

		return true
	}

	return false
}

func (s *scanner) expectString(str string) bool {
	if !bytes.HasPrefix(s.input[s.pos:], []byte(str)) {
		return false
	}

	for range str {
		s.advance()
	}

	return true
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) mark() mark {
	return mark{pos: s.pos, line: s.line, col: s.col}
}

func (s *scanner) reset(m mark) {
	s.pos, s.line, s.col = m.pos, m.line, m.col
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

// skip consumes whitespace and comments.
func (s *scanner) skip() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()

		case '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}

		default:
			return
		}
	}
}

// fail records that what was expected at the current position. Only the
// farthest position is kept, like a PEG parser.
func (s *scanner) fail(what string) {
	switch {
	case s.pos > s.failAt.Offset:
		s.failAt = s.position()
		s.expected = append(s.expected[:0], what)
		s.found = s.describeNext()

	case s.pos == s.failAt.Offset:
		if !slices.Contains(s.expected, what) {
			s.expected = append(s.expected, what)
		}
	}
}

func (s *scanner) describeNext() string {
	switch r := s.peek(); {
	case s.eof():
		return "end of input"
	case r == BlockBegin:
		return "indented block"
	case r == BlockEnd:
		return "end of block"
	default:
		return strconv.QuoteRune(r)
	}
}

func (s *scanner) syntaxError() *SyntaxError {
	expected := slices.Clone(s.expected)
	slices.Sort(expected)

	return &SyntaxError{
		Message:  "expected " + joinAlternatives(expected) + " but found " + s.found,
		Line:     s.failAt.Line,
		Column:   s.failAt.Column,
		Expected: expected,
		Found:    s.found,
	}
}

func joinAlternatives(items []string) string {
	switch len(items) {
	case 0:
		return "nothing"
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// Character classification

func isAtomStart(r rune) bool { return r >= 'a' && r <= 'z' }

func isAtomContinue(r rune) bool {
	return isDigit(r) || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
