// Package lineup implements the Q line-up sign-up board: an exclusive
// (location, date) slot schedule that members claim, clear or close through
// interactive controls on a previously posted chat message.
package lineup

import (
	"strings"
	"time"
)

// Kind identifies which interaction a callback token resumes.
type Kind int

const (
	KindUnknown Kind = iota
	KindClaim
	KindClearOverflow
	KindCloseOverflow
)

const (
	tokenDelim = "::"
	dateLayout = "2006-01-02"

	kindClaimWire = "q_line_up"
	kindClearWire = "clear" + tokenDelim + kindClaimWire
	kindCloseWire = "close" + tokenDelim + kindClaimWire

	// Tolerated on decode so tagged tokens can coexist with the untagged
	// shape already in flight; never emitted.
	versionTag = "v1" + tokenDelim
)

func (k Kind) String() string {
	switch k {
	case KindClaim:
		return "claim"
	case KindClearOverflow:
		return "clear"
	case KindCloseOverflow:
		return "close"
	default:
		return "unknown"
	}
}

func (k Kind) wire() string {
	switch k {
	case KindClearOverflow:
		return kindClearWire
	case KindCloseOverflow:
		return kindCloseWire
	default:
		return kindClaimWire
	}
}

// Token is the entire interaction state round-tripped through the
// platform's opaque action identifier. The platform is stateless between
// the render and the callback; decoding a token is the only way the
// dispatcher learns what a callback means.
type Token struct {
	Kind     Kind
	Date     time.Time
	Location string
}

// UnknownToken is the sentinel for input that could not be decoded.
func UnknownToken() Token {
	return Token{Kind: KindUnknown}
}

// EncodeToken formats a token as "<kind>::<YYYY-MM-DD>::<location-slug>",
// e.g. "q_line_up::2022-10-06::gem" or "clear::q_line_up::2022-10-06::gem".
func EncodeToken(kind Kind, date time.Time, location string) string {
	return kind.wire() + tokenDelim + date.Format(dateLayout) + tokenDelim + location
}

// TokenCodec decodes callback tokens. KnownLocation, when set, rejects
// tokens naming a location the board is not configured for.
type TokenCodec struct {
	KnownLocation func(slug string) bool
}

// Decode parses a callback token. Tokens arrive from an untrusted external
// callback, so any shape or parse failure decodes to the Unknown sentinel
// instead of an error.
func (c TokenCodec) Decode(raw string) Token {
	raw = strings.TrimPrefix(raw, versionTag)

	var kind Kind
	var rest string
	switch {
	case strings.HasPrefix(raw, kindClearWire+tokenDelim):
		kind = KindClearOverflow
		rest = strings.TrimPrefix(raw, kindClearWire+tokenDelim)
	case strings.HasPrefix(raw, kindCloseWire+tokenDelim):
		kind = KindCloseOverflow
		rest = strings.TrimPrefix(raw, kindCloseWire+tokenDelim)
	case strings.HasPrefix(raw, kindClaimWire+tokenDelim):
		kind = KindClaim
		rest = strings.TrimPrefix(raw, kindClaimWire+tokenDelim)
	default:
		return UnknownToken()
	}

	parts := strings.Split(rest, tokenDelim)
	if len(parts) != 2 {
		return UnknownToken()
	}

	date, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return UnknownToken()
	}

	location := parts[1]
	if location == "" {
		return UnknownToken()
	}
	if c.KnownLocation != nil && !c.KnownLocation(location) {
		return UnknownToken()
	}

	return Token{Kind: kind, Date: date, Location: location}
}
