/*
 * SQL SELECT to MongoDB find() translator.
 *
 * Supported statement:
 *
 *     SELECT * | field[, field...] FROM table
 *         [WHERE field op value [AND|OR field op value...]]
 *         [OFFSET n] [LIMIT n]
 *
 * WHERE, OFFSET and LIMIT may come in any order, each at most once.
 * Operators are "=", "<>", "<" and ">", values are unsigned integers
 * or single-quoted strings. A dotted field path must be quoted: 'a.b'
 */

package translator

import (
	"regexp"
	"strings"
)

type parser struct {
	*scanner
	query *Query
}

/*
 * Parse the given SQL text into a query model.
 * The first unexpected token stops parsing, no partial result is returned
 */
func Parse(sql string) (*Query, error) {
	p := &parser{
		scanner: newScanner(sql),
		query:   &Query{},
	}

	err := p.parse()
	if err != nil {
		return nil, err
	}

	return p.query, nil
}

/*
 * Translate SQL text into the MongoDB shell query
 */
func Translate(sql string) (string, error) {
	query, err := Parse(sql)
	if err != nil {
		return "", err
	}

	return query.String(), nil
}

func (p *parser) parse() error {
	_, err := p.match(reSelect)
	if err != nil {
		return err
	}

	// Everything or only specific fields
	if p.peek("*") {
		_, err = p.match(reStar)
	} else {
		err = p.parseColumns()
	}
	if err != nil {
		return err
	}

	_, err = p.match(reFrom)
	if err != nil {
		return err
	}

	table, err := p.match(reSimpleID)
	if err != nil {
		return err
	}
	p.query.Table = strings.Trim(table, "'")

	err = p.skipWhitespace()
	if err != nil {
		return err
	}

	// Optional clauses in any order, every one at most once
	for !p.atEnd() {
		switch {
		case p.peek("offset") && p.query.Offset == "":
			p.query.Offset, err = p.parseCount(reOffset)

		case p.peek("limit") && p.query.Limit == "":
			p.query.Limit, err = p.parseCount(reLimit)

		case p.peek("where") && len(p.query.Conditions) == 0:
			err = p.parseWhere()

		default:
			return p.fail("Invalid query")
		}

		if err != nil {
			return err
		}
	}

	return nil
}

/*
 * Comma separated list of fields.
 * A dangling or doubled comma fails on the next field name
 */
func (p *parser) parseColumns() error {
	for {
		column, err := p.match(reCompositeID)
		if err != nil {
			return err
		}
		p.query.Columns = append(p.query.Columns, Identifier(column))

		separator, err := p.match(reSeparator)
		if err != nil {
			return err
		}

		if !strings.Contains(separator, ",") {
			return nil
		}
	}
}

// OFFSET or LIMIT keyword followed by the digits
func (p *parser) parseCount(keyword *regexp.Regexp) (string, error) {
	_, err := p.match(keyword)
	if err != nil {
		return "", err
	}

	digits, err := p.match(reDigits)
	if err != nil {
		return "", err
	}

	return digits, p.skipWhitespace()
}

/*
 * WHERE conditions chain.
 * All the conditions are joined by the same logical operator
 */
func (p *parser) parseWhere() error {
	_, err := p.match(reWhere)
	if err != nil {
		return err
	}

	for {
		field, err := p.match(reCompositeID)
		if err != nil {
			return err
		}

		token, err := p.match(reOperator)
		if err != nil {
			return err
		}

		operator, ok := parseOperator(strings.TrimSpace(token))
		if !ok {
			return p.fail("Unknown operator")
		}

		value, err := p.match(reValue)
		if err != nil {
			return err
		}

		p.query.Conditions = append(p.query.Conditions, Condition{
			Field:    Identifier(field),
			Operator: operator,
			Value:    Literal(value),
		})

		err = p.skipWhitespace()
		if err != nil {
			return err
		}

		// Next logical operator or the end of the chain
		var found Connective
		switch {
		case p.peek("and"):
			found = And
		case p.peek("or"):
			found = Or
		default:
			return nil
		}

		if p.query.Connective == None {
			p.query.Connective = found
		} else if found != p.query.Connective {
			return p.fail("Incorrect logical operator")
		}

		_, err = p.match(reConnectives[p.query.Connective])
		if err != nil {
			return err
		}
	}
}
