// Package normalize canonicalizes raw contact fields into comparable forms.
// Every function is total: unparsable input yields the empty string, never an
// error, so a bad field degrades one key instead of failing a record.
package normalize

import (
	"regexp"
	"strings"
)

// placeholderNames are strings that look like values but mean "no data".
// A name or entity name that reduces to one of these is treated as empty.
var placeholderNames = map[string]struct{}{
	"":              {},
	"nan":           {},
	"n/a":           {},
	"na":            {},
	"none":          {},
	"unknown":       {},
	"tbd":           {},
	"pending":       {},
	"not available": {},
	"owner managed": {},
	"owner-managed": {},
	"self managed":  {},
	"self-managed":  {},
}

var (
	nonDigitRe   = regexp.MustCompile(`\D`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
	punctRe      = regexp.MustCompile(`[^\w\s]`)
)

// Phone reduces a raw phone value to its 10 significant digits.
// An 11-digit number with a leading country digit 1 has it dropped.
// Anything that does not end up exactly 10 digits is unusable.
func Phone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	// Spreadsheet exports render numeric cells as floats (5184340726.0).
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	digits := nonDigitRe.ReplaceAllString(s, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return ""
	}
	if strings.Count(digits, "0") == len(digits) {
		return ""
	}
	return digits
}

// Email lowercases and trims an address. Comma-separated lists take the first
// valid entry. Anything without a local@domain shape, or longer than the RFC
// 5321 254-char limit, is unusable.
func Email(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	for _, candidate := range strings.Split(s, ",") {
		candidate = strings.TrimSpace(candidate)
		if validEmail(candidate) {
			return candidate
		}
	}
	return ""
}

func validEmail(s string) bool {
	if len(s) > 254 {
		return false
	}
	at := strings.IndexByte(s, '@')
	// local part non-empty, domain non-empty, single @
	return at > 0 && at < len(s)-1 && strings.IndexByte(s[at+1:], '@') < 0
}

// PersonName joins and canonicalizes a first/last name pair: lowercased,
// trimmed, internal whitespace collapsed. Placeholder values reduce to empty.
func PersonName(first, last string) string {
	f := cleanPart(first)
	l := cleanPart(last)
	full := strings.TrimSpace(f + " " + l)
	full = multiSpaceRe.ReplaceAllString(full, " ")
	full = strings.ToLower(full)
	if _, bad := placeholderNames[full]; bad {
		return ""
	}
	return full
}

// OrgName canonicalizes an entity/firm name for exact-match identity:
// lowercased, trimmed, whitespace collapsed. Placeholder entity names
// ("nan", "owner managed", ...) reduce to empty and never become an
// Organization. Legal suffixes are NOT stripped here — suffix variants are
// distinct organizations.
func OrgName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = multiSpaceRe.ReplaceAllString(s, " ")
	if _, bad := placeholderNames[s]; bad {
		return ""
	}
	return s
}

// LinkedIn canonicalizes a profile URL: lowercased, query string and trailing
// slash removed. Scheme and host are kept so distinct hosts stay distinct.
func LinkedIn(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	return strings.ToLower(s)
}

func cleanPart(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// orgSuffixes are tokens removed by StripLegalSuffix. Kept in sync with the
// fuzzy-duplicate-firm report this transform feeds.
var orgSuffixRe = regexp.MustCompile(`\b(llc|inc|corp|corporation|ltd|limited|company|co|group|partners|capital|management|investments|family office|family|holdings|associates|trust|advisors|llp|lp)\b\.?`)

// StripLegalSuffix removes legal-entity suffixes and generic firm words from
// an already-normalized org name. Reporting-only: the Collision Auditor uses
// it to surface near-duplicate firms. It must never decide canonical
// Organization identity.
func StripLegalSuffix(normalized string) string {
	s := orgSuffixRe.ReplaceAllString(normalized, "")
	s = punctRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
