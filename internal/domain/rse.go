package domain

import "strings"

// RSE is a named storage endpoint in the catalog.
type RSE struct {
	ID           string
	Name         string
	VO           string
	Availability Availability
}

// Availability captures which operations an RSE currently accepts.
type Availability struct {
	Read   bool
	Write  bool
	Delete bool
}

// ParseRSEExpression splits an RSE expression into the RSE names it unions.
// Only the union operator is supported; each operand is a literal RSE name.
// An expression with no operands resolves to nothing, which callers treat
// as an unresolvable expression.
func ParseRSEExpression(expression string) []string {
	var names []string
	for _, part := range strings.Split(expression, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
