package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

var (
	// MySQL style "LIMIT offset,count"
	reLimitComma = regexp.MustCompile(`(?i)\blimit\s+\d+\s*,`)
)

/*
 * Explain why a query was rejected.
 *
 * When the translator fails, but the text is a valid general SQL,
 * the reason is some SQL feature MongoDB find() can't express
 * or the translator doesn't support. Empty result means no better
 * explanation than the translator's own error
 */
func unsupportedHint(sql string) string {
	ast, err := sqlparser.Parse(sql)
	if err != nil {
		return ""
	}

	query, ok := ast.(*sqlparser.Select)
	if !ok {
		if _, ok := ast.(*sqlparser.Union); ok {
			return "UNION is not supported"
		}
		return "Only SELECT statement is supported"
	}

	switch {
	case query.Distinct != "":
		return "DISTINCT is not supported"
	case len(query.GroupBy) > 0 || checkNeedAgg(query.SelectExprs):
		return "'GROUP BY' & aggregation are not supported"
	case query.Having != nil:
		return "HAVING is not supported"
	case len(query.OrderBy) > 0:
		return "ORDER BY is not supported"
	case len(query.From) != 1:
		return "Multiple FROM are not supported"
	}

	switch from := query.From[0].(type) {
	case *sqlparser.JoinTableExpr:
		return "JOIN is not supported"
	case *sqlparser.AliasedTableExpr:
		if _, ok := from.Expr.(*sqlparser.Subquery); ok {
			return "Subqueries are not supported"
		}
		if !from.As.IsEmpty() {
			return "Table aliases are not supported"
		}
	default:
		return "Only a single table name is supported after FROM"
	}

	if hint := columnsHint(query.SelectExprs); hint != "" {
		return hint
	}

	if reLimitComma.MatchString(sql) {
		return "Use 'OFFSET n LIMIT m' instead of 'LIMIT n,m'"
	}

	if query.Where != nil {
		return whereHint(sql, query.Where.Expr, nil)
	}

	return ""
}

/*
 * If some selected field is an aggregation function
 */
func checkNeedAgg(sqlSelect sqlparser.SelectExprs) bool {
	for _, v := range sqlSelect {
		expr, ok := v.(*sqlparser.AliasedExpr)
		if !ok {
			// No need to handle, star expression * just skip is ok
			continue
		}

		if _, ok := expr.Expr.(*sqlparser.FuncExpr); ok {
			return true
		}
	}

	return false
}

func columnsHint(exprs sqlparser.SelectExprs) string {
	for _, v := range exprs {
		expr, ok := v.(*sqlparser.AliasedExpr)
		if !ok {
			continue
		}

		if !expr.As.IsEmpty() {
			return "Column aliases are not supported"
		}

		col, ok := expr.Expr.(*sqlparser.ColName)
		if !ok {
			return "Only field names can be selected"
		}

		if hint := compositeHint(col); hint != "" {
			return hint
		}
	}

	return ""
}

/*
 * Walk WHERE expressions and find the first unsupported one.
 * Parent is nil for the top level node
 */
func whereHint(sql string, expr sqlparser.Expr, parent sqlparser.Expr) string {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		if _, ok := parent.(*sqlparser.OrExpr); ok {
			return "Mixing AND and OR in one WHERE is not supported"
		}

		if hint := whereHint(sql, e.Left, e); hint != "" {
			return hint
		}
		return whereHint(sql, e.Right, e)

	case *sqlparser.OrExpr:
		if _, ok := parent.(*sqlparser.AndExpr); ok {
			return "Mixing AND and OR in one WHERE is not supported"
		}

		if hint := whereHint(sql, e.Left, e); hint != "" {
			return hint
		}
		return whereHint(sql, e.Right, e)

	case *sqlparser.ParenExpr:
		return "Parentheses in WHERE are not supported"

	case *sqlparser.NotExpr:
		return "'NOT' expression is not supported"

	case *sqlparser.IsExpr:
		return "'IS' expression is not supported"

	case *sqlparser.RangeCond:
		return "BETWEEN is not supported"

	case *sqlparser.ComparisonExpr:
		return comparisonHint(sql, e)
	}

	return fmt.Sprintf("Unsupported WHERE expression: %s", sqlparser.String(expr))
}

func comparisonHint(sql string, expr *sqlparser.ComparisonExpr) string {
	switch expr.Operator {
	case "=", "<", ">":
	case "!=":
		// "<>" and "!=" are the same for the parser
		if strings.Contains(sql, "!=") {
			return "Use '<>' instead of '!='"
		}
	default:
		return fmt.Sprintf("Operator '%s' is not supported, use one of: =, <>, <, >", strings.ToUpper(expr.Operator))
	}

	col, ok := expr.Left.(*sqlparser.ColName)
	if !ok {
		return "Invalid comparison expression, the left must be a field name"
	}

	if hint := compositeHint(col); hint != "" {
		return hint
	}

	switch right := expr.Right.(type) {
	case *sqlparser.SQLVal:
		switch right.Type {
		case sqlparser.IntVal, sqlparser.StrVal:
		default:
			return "Only unsigned integer and single-quoted string values are supported"
		}

	case *sqlparser.ColName:
		return "Field name on the right side of compare operator is not supported"

	case *sqlparser.Subquery:
		return "Subqueries are not supported"

	default:
		return "Only unsigned integer and single-quoted string values are supported"
	}

	return ""
}

/*
 * Dotted field path is accepted only when quoted
 */
func compositeHint(col *sqlparser.ColName) string {
	if col.Qualifier.IsEmpty() {
		return ""
	}

	return fmt.Sprintf("Quote a nested field name: '%s'", strings.Replace(sqlparser.String(col), "`", "", -1))
}
