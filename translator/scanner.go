package translator

import (
	"regexp"
	"strings"
)

const (
	wordPattern = `[A-Za-z_]\w*`

	// Table name: bare or quoted, never a path
	simpleIDPattern = `(` + wordPattern + `|'` + wordPattern + `')`

	// Field name: a dotted path is allowed only inside quotes
	compositeIDPattern = `(` + wordPattern + `|'` + wordPattern + `(\.` + wordPattern + `)*')`
)

var (
	reSelect      = anchored(keyword("select") + `\s+`)
	reStar        = anchored(`\*\s+`)
	reFrom        = anchored(keyword("from") + `\s+`)
	reWhere       = anchored(keyword("where") + `\s+`)
	reOffset      = anchored(keyword("offset") + `\s+`)
	reLimit       = anchored(keyword("limit") + `\s+`)
	reSimpleID    = anchored(simpleIDPattern)
	reCompositeID = anchored(compositeIDPattern)
	reSeparator   = anchored(`\s*,?\s*`)
	reOperator    = anchored(`\s*(<>|[=<>])\s*`)
	reValue       = anchored(`(\d+|'.*')`)
	reDigits      = anchored(`\d+`)
	reSpaces      = anchored(`\s+`)

	// Logical operator keywords with the required trailing whitespace
	reConnectives = map[Connective]*regexp.Regexp{
		And: anchored(keyword("and") + `\s+`),
		Or:  anchored(keyword("or") + `\s+`),
	}
)

/*
 * Pattern which can match only at the beginning of the given text
 */
func anchored(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)`)
}

/*
 * Case-insensitive keyword pattern: "and" -> "[aA][nN][dD]".
 * Only ASCII letters match, no Unicode folding
 */
func keyword(word string) string {
	var b strings.Builder

	for _, c := range word {
		b.WriteString("[" + strings.ToLower(string(c)) + strings.ToUpper(string(c)) + "]")
	}

	return b.String()
}

/*
 * Cursor over the trimmed query text.
 * Whitespace is never skipped implicitly
 */
type scanner struct {
	input string
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: strings.TrimSpace(input)}
}

/*
 * Match the pattern at the cursor and move past the matched text.
 * The cursor stays untouched on failure
 */
func (s *scanner) match(re *regexp.Regexp) (string, error) {
	loc := re.FindStringIndex(s.input[s.pos:])
	if loc == nil {
		return "", s.fail("failed to parse")
	}

	token := s.input[s.pos : s.pos+loc[1]]
	s.pos += loc[1]

	return token, nil
}

// ASCII case-insensitive prefix check at the cursor
func (s *scanner) peek(literal string) bool {
	rest := s.input[s.pos:]
	if len(rest) < len(literal) {
		return false
	}

	for i := 0; i < len(literal); i++ {
		if lower(rest[i]) != lower(literal[i]) {
			return false
		}
	}

	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}

func (s *scanner) atEnd() bool {
	return s.pos == len(s.input)
}

/*
 * Whitespace is required between tokens unless
 * the end of the query is already reached
 */
func (s *scanner) skipWhitespace() error {
	if s.atEnd() {
		return nil
	}

	_, err := s.match(reSpaces)
	return err
}

func (s *scanner) fail(reason string) *ParseError {
	return &ParseError{Reason: reason, Pos: s.pos}
}
