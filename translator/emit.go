package translator

import (
	"strings"
)

/*
 * Render the query in the MongoDB shell syntax:
 *
 *     db.<table>.find(<filter>[, <projection>])[.skip(<n>)][.limit(<n>)]
 *
 * find() gets no arguments when nothing is filtered or projected,
 * the filter alone when there are no columns,
 * and both otherwise with "{}" as an empty filter
 */
func (q *Query) String() string {
	var b strings.Builder

	b.WriteString("db.")
	b.WriteString(q.Table)
	b.WriteString(".find(")

	switch {
	case len(q.Columns) > 0:
		b.WriteString(q.filter())
		b.WriteString(", ")
		b.WriteString(q.projection())
	case len(q.Conditions) > 0:
		b.WriteString(q.filter())
	}

	b.WriteString(")")

	if q.Offset != "" {
		b.WriteString(".skip(" + q.Offset + ")")
	}
	if q.Limit != "" {
		b.WriteString(".limit(" + q.Limit + ")")
	}

	return b.String()
}

/*
 * OR chain is a list of single condition objects,
 * otherwise all the conditions share one object
 */
func (q *Query) filter() string {
	conditions := make([]string, len(q.Conditions))
	for i, c := range q.Conditions {
		conditions[i] = c.String()
	}

	if q.Connective == Or {
		for i := range conditions {
			conditions[i] = "{" + conditions[i] + "}"
		}

		return "[" + strings.Join(conditions, ", ") + "]"
	}

	return "{" + strings.Join(conditions, ", ") + "}"
}

func (q *Query) projection() string {
	columns := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		columns[i] = string(c) + ": 1"
	}

	return "{" + strings.Join(columns, ", ") + "}"
}

// Field keeps its quotes if it had them
func (c Condition) String() string {
	if c.Operator == Equal {
		return string(c.Field) + ": " + string(c.Value)
	}

	return string(c.Field) + ": {" + c.Operator.mongo() + ": " + string(c.Value) + "}"
}
