package summary

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKeyword returns the canonical form of a keyword identifier:
// surrounding whitespace trimmed, NFC normalized.
func NormalizeKeyword(keyword string) string {
	return norm.NFC.String(strings.TrimSpace(keyword))
}

// SplitKeyword splits "WBHP:WELL1" into its mnemonic ("WBHP") and qualifier
// ("WELL1"). Field-level keywords such as "FOPR" have an empty qualifier.
func SplitKeyword(keyword string) (mnemonic, qualifier string) {
	mnemonic, qualifier, _ = strings.Cut(keyword, ":")
	return mnemonic, qualifier
}

// MatchKeyword reports whether keyword matches any of the glob patterns.
// An empty pattern list matches everything. Invalid patterns never match;
// use ValidatePattern to reject them up front.
func MatchKeyword(keyword string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(p, keyword); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidatePattern checks that a keyword glob pattern is well formed.
func ValidatePattern(pattern string) error {
	_, err := path.Match(pattern, "")
	return err
}

// FilterKeywords returns the keywords that match patterns, preserving order.
func FilterKeywords(keywords, patterns []string) []string {
	if len(patterns) == 0 {
		return keywords
	}
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if MatchKeyword(k, patterns) {
			out = append(out, k)
		}
	}
	return out
}
