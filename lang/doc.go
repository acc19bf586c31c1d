// Package lang parses benchDL, the indentation-sensitive language used to
// describe load-test scenarios, and discovers the variables a script
// references.
//
// # Pipeline
//
// Parsing runs in two passes:
//
//  1. [Preprocessor] rewrites indentation into explicit [BlockBegin] and
//     [BlockEnd] markers. Blank lines, comment lines and continuation lines
//     inside open strings or brackets do not affect indentation.
//  2. [Parser] runs a backtracking recursive descent over the delimited text
//     and returns a script, a slice of [Statement].
//
// Markers are zero-width, so a [SyntaxError] reports line and column in the
// original text.
//
// # Grammar
//
// Informal PEG, ordered choice with "/":
//
//	Script     → _ (Statement _)* EOF
//	Statement  → Atom Args? ':' BEGIN (Statement _)+ END
//	           / Atom Args?
//	Args       → '(' Term '=' Term (',' Term '=' Term)* ')'
//	           / '(' Term (',' Term)* ')'
//	           / '(' ')'
//	Term       → UnitNumber / Comparison / Atom Args / List / String / Atom / Number
//	UnitNumber → (Number / Atom Args) Atom
//	Comparison → (String / Number) ('<=' / '>=' / '==' / '<' / '>') (String / Number)
//	List       → '[' (Term (',' Term)*)? ']'
//	Atom       → [a-z] [0-9a-zA-Z_]* / "'" [^']* "'"
//	Number     → [0-9]+ ('.' [0-9]+)? ('e' '-'? [0-9]+)? [GKM]?
//	String     → '"' ([^"\\] / '\\' .)* '"'
//
// Whitespace, newlines and '#' comments separate tokens.
//
// # Example
//
//	#!benchDL
//	pool(size = 3, worker_type = dummy_worker):
//	    loop(time = 5 min, rate = numvar("loop_rate", 1) rps):
//	        print("FOO")
//
// # Variables
//
// [ExtractVariables] walks a script and collects every name declared with
// var or numvar, and every default set in a defaults statement. A loop's
// iterator names are local to its body and never reported from it.
package lang
