package query

import "strings"

// specialCharacters are reserved by the remote query syntax.
const specialCharacters = `:,()`

// EscapeSpecialCharacters backslash-escapes reserved characters.
func EscapeSpecialCharacters(s string) string {
	if !strings.ContainsAny(s, specialCharacters) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(specialCharacters, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripQuotes removes all double-quote characters.
func StripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
