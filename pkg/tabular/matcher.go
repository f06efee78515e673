// Package tabular parses and writes the comma-delimited (and xlsx)
// station files the ANH field teams exchange. Header names in the wild
// drift between uploads, so import matching is deliberately permissive;
// export always emits the published header verbatim.
package tabular

import "strings"

// HeaderMatcher resolves a required logical column to an index in the
// actual header row, or -1. It is a named strategy so the permissive
// default can be swapped for an exact or alias-table matcher without
// touching the row loop.
type HeaderMatcher interface {
	Match(required string, headers []string) int
}

// SubstringMatcher matches when either name contains the other after
// uppercasing and trimming. Ambiguous partial matches resolve to the
// first matching header in column order. Permissive and known to be
// fragile, but it is what the field spreadsheets require.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(required string, headers []string) int {
	req := normalizeHeader(required)
	for i, h := range headers {
		h = normalizeHeader(h)
		if strings.Contains(h, req) || strings.Contains(req, h) {
			return i
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	return strings.ToUpper(strings.TrimSpace(h))
}
