package invoice

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// TypeVocabulary recognizes the small fixed set of product-type tokens that
// separate a brand name from the structured tail of a data row. Matching is a
// single Aho-Corasick pass over the uppercased row, then a word-boundary scan
// to locate the earliest standalone occurrence.
type TypeVocabulary struct {
	matcher *ahocorasick.Matcher
	terms   []string
	mu      sync.RWMutex
}

// DefaultVocabulary returns the product types found on depot invoices.
func DefaultVocabulary() *TypeVocabulary {
	return NewTypeVocabulary("IML", "BEER", "FMFL", "WINE", "DUTY PAID")
}

// NewTypeVocabulary builds a vocabulary from the given terms.
func NewTypeVocabulary(terms ...string) *TypeVocabulary {
	v := &TypeVocabulary{}
	v.Rebuild(terms)
	return v
}

// Rebuild replaces the term set.
func (v *TypeVocabulary) Rebuild(terms []string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.terms = make([]string, 0, len(terms))
	patterns := make([][]byte, 0, len(terms))
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		v.terms = append(v.terms, t)
		patterns = append(patterns, []byte(t))
	}
	if len(patterns) > 0 {
		v.matcher = ahocorasick.NewMatcher(patterns)
	} else {
		v.matcher = nil
	}
}

// Find returns the earliest word-bounded vocabulary term in text, with the
// byte index where it starts. ok is false when no term occurs.
func (v *TypeVocabulary) Find(text string) (term string, index int, ok bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.matcher == nil {
		return "", 0, false
	}

	upper := strings.ToUpper(text)
	hits := v.matcher.Match([]byte(upper))

	best := -1
	for _, h := range hits {
		candidate := v.terms[h]
		if idx := wordBoundedIndex(upper, candidate); idx >= 0 {
			if best < 0 || idx < best {
				best = idx
				term = candidate
			}
		}
	}
	if best < 0 {
		return "", 0, false
	}
	return term, best, true
}

// Contains reports whether any vocabulary term occurs word-bounded in text.
func (v *TypeVocabulary) Contains(text string) bool {
	_, _, ok := v.Find(text)
	return ok
}

// wordBoundedIndex finds the first occurrence of term in s that is not glued
// to surrounding letters or digits.
func wordBoundedIndex(s, term string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], term)
		if idx < 0 {
			return -1
		}
		idx += from
		startOK := idx == 0 || !isWordByte(s[idx-1])
		end := idx + len(term)
		endOK := end == len(s) || !isWordByte(s[end])
		if startOK && endOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
