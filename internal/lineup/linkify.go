package lineup

import "strings"

// Directory resolves community nicknames to platform user ids. It is a
// read-mostly snapshot passed in explicitly; the renderer never reaches for
// ambient shared state.
type Directory interface {
	Lookup(name string) (platformID string, ok bool)
}

// Linkify replaces each whitespace-separated token that the directory
// recognizes with a platform mention, leaving every other token verbatim.
// Claimant values are free text, so "jones bday q" still mentions jones
// while "bday" and "q" pass through untouched.
func Linkify(text string, dir Directory) string {
	if dir == nil {
		return text
	}

	fields := strings.Fields(text)
	for i, field := range fields {
		if id, ok := dir.Lookup(strings.ToLower(field)); ok {
			fields[i] = Mention(id)
		}
	}
	return strings.Join(fields, " ")
}

// Mention formats a platform user mention.
func Mention(platformID string) string {
	return "<@" + platformID + ">"
}
