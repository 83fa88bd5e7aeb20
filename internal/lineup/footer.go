package lineup

import (
	"strings"
	"time"

	"github.com/mudgear/qlineup_bot/internal/chat"
)

// ScopeAll marks a document that renders every location.
const ScopeAll = "all"

// Footer is the trailing metadata row of a rendered document. It lets a
// later callback recover whether the document is a single-location or
// multi-location view and what date range it covers, without any
// server-side session.
type Footer struct {
	Scope string // location slug, or ScopeAll
	Start time.Time
	End   time.Time
}

// EncodeFooter formats "<location-slug-or-'all'>::<start>::<end>",
// e.g. "gem::2022-09-29::2022-10-19". An empty scope encodes as ScopeAll.
func EncodeFooter(f Footer) string {
	scope := f.Scope
	if scope == "" {
		scope = ScopeAll
	}
	return scope + tokenDelim + f.Start.Format(dateLayout) + tokenDelim + f.End.Format(dateLayout)
}

// DecodeFooter parses a footer row's text. ok is false on any shape or
// parse failure.
func DecodeFooter(raw string) (Footer, bool) {
	parts := strings.Split(raw, tokenDelim)
	if len(parts) != 3 {
		return Footer{}, false
	}

	start, err := time.Parse(dateLayout, parts[1])
	if err != nil {
		return Footer{}, false
	}
	end, err := time.Parse(dateLayout, parts[2])
	if err != nil {
		return Footer{}, false
	}
	if parts[0] == "" {
		return Footer{}, false
	}

	return Footer{Scope: parts[0], Start: start, End: end}, true
}

// DocumentFooter reads the footer from the last row of a document.
func DocumentFooter(doc chat.Document) (Footer, bool) {
	if len(doc.Rows) == 0 {
		return Footer{}, false
	}
	return DecodeFooter(doc.Rows[len(doc.Rows)-1].Text)
}
