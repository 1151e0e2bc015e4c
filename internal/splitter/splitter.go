// Package splitter breaks the raw reference-manual export into ordered page
// fragments.
package splitter

import "strings"

// Delimiter is the literal token separating page fragments in the export.
const Delimiter = "<hr>"

// Split cuts the raw document on the literal delimiter, preserving fragment
// order. No validation is performed; empty fragments are returned as-is and
// filtered later by the registry.
//
// The delimiter has no escaping mechanism: a literal "<hr>" inside one
// logical page's own content (for example in a code sample) will mis-split
// that page. The export does not produce such content today.
func Split(raw string) []string {
	return strings.Split(raw, Delimiter)
}
