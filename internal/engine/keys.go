package engine

import (
	"fmt"
	"slices"
	"sort"
)

// Side names one of the two datasets in a comparison.
type Side int

const (
	SideReference Side = iota
	SideCandidate
)

// String returns "reference" or "candidate".
func (s Side) String() string {
	switch s {
	case SideReference:
		return "reference"
	case SideCandidate:
		return "candidate"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideReference {
		return SideCandidate
	}
	return SideReference
}

// MarshalText renders the side by name in JSON reports.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "reference" or "candidate".
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "reference":
		*s = SideReference
	case "candidate":
		*s = SideCandidate
	default:
		return fmt.Errorf("invalid side %q", text)
	}
	return nil
}

// KeywordPairing is the reconciled keyword set of two datasets.
//
// Every keyword in Keywords exists in both datasets. Short is the dataset
// whose keyword set had fewer (or equal) elements.
type KeywordPairing struct {
	Keywords []string `json:"keywords"`
	Short    Side     `json:"short"`
	Long     Side     `json:"long"`
}

// ReconcileKeys pairs the keyword sets of the reference and candidate datasets.
//
// Both sets are sorted (copies; inputs are not mutated). The set with fewer
// elements is the short set, ties going to the reference. Every short keyword
// must appear in the long set, otherwise a KEYWORD_MISMATCH error names the
// first missing keyword. Extra keywords in the long set are ignored.
func ReconcileKeys(reference, candidate []string) (KeywordPairing, error) {
	ref := sortedCopy(reference)
	cand := sortedCopy(candidate)

	short, long := ref, cand
	pairing := KeywordPairing{Short: SideReference, Long: SideCandidate}
	if len(cand) < len(ref) {
		short, long = cand, ref
		pairing.Short, pairing.Long = SideCandidate, SideReference
	}

	for _, kw := range short {
		if _, found := slices.BinarySearch(long, kw); !found {
			return KeywordPairing{}, NewKeywordMismatchError(kw, pairing.Short, pairing.Long)
		}
	}

	pairing.Keywords = short
	return pairing, nil
}

func sortedCopy(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	return out
}
