package translator

import (
	"strconv"
	"strings"
)

/*
 * Field or collection name as written in the query.
 * Bare names never contain a dot, quoted ones may be a dot-separated path
 */
type Identifier string

// Path returns the name without the surrounding single quotes
func (i Identifier) Path() string {
	return strings.Trim(string(i), "'")
}

/*
 * Value to compare a field with: an unsigned integer
 * or a single-quoted string, kept exactly as written
 */
type Literal string

func (l Literal) IsString() bool {
	return strings.HasPrefix(string(l), "'")
}

/*
 * Typed value for the MongoDB driver.
 * Integers become int64, strings lose their quotes
 */
func (l Literal) Value() (interface{}, error) {
	if l.IsString() {
		return string(l[1 : len(l)-1]), nil
	}

	return parseCount(string(l))
}

// Comparison operator of a single condition
type Operator int

const (
	Equal Operator = iota
	NotEqual
	LessThan
	GreaterThan
)

func parseOperator(token string) (Operator, bool) {
	switch token {
	case "=":
		return Equal, true
	case "<>":
		return NotEqual, true
	case "<":
		return LessThan, true
	case ">":
		return GreaterThan, true
	}

	return 0, false
}

func (o Operator) String() string {
	switch o {
	case NotEqual:
		return "<>"
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	}

	return "="
}

// MongoDB query operator, empty for the plain equality
func (o Operator) mongo() string {
	switch o {
	case NotEqual:
		return "$ne"
	case LessThan:
		return "$lt"
	case GreaterThan:
		return "$gt"
	}

	return ""
}

/*
 * Logical operator joining all the WHERE conditions.
 * Fixed by the first one found, a chain never mixes them
 */
type Connective int

const (
	None Connective = iota
	And
	Or
)

func (c Connective) String() string {
	switch c {
	case And:
		return "and"
	case Or:
		return "or"
	}

	return ""
}

type Condition struct {
	Field    Identifier
	Operator Operator
	Value    Literal
}

/*
 * Parsed SELECT statement.
 * Offset and Limit keep the digits as written, empty when not given
 */
type Query struct {
	Table      string
	Columns    []Identifier
	Conditions []Condition
	Connective Connective
	Offset     string
	Limit      string
}

func parseCount(digits string) (int64, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, &ParseError{Reason: "Integer out of range: " + digits}
	}

	return n, nil
}
