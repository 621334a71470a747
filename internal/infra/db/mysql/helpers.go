package mysql

import "strings"

// jsonOrEmpty returns "{}" when the input is empty/whitespace, so the
// JSON column always holds a valid document.
func jsonOrEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "{}"
	}
	return s
}
