package translator

/*
 * The only error kind returned by the translator.
 * Reason is a short message meant to be shown to the user unmodified,
 * Pos is the cursor offset in the trimmed query where parsing stopped
 */
type ParseError struct {
	Reason string
	Pos    int
}

func (e *ParseError) Error() string {
	return e.Reason
}
