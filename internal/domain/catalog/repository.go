// Package catalog holds the read-only product price list the matcher searches.
// Entries are loaded from depot-issued CSV or XLSX price lists and kept in
// memory; load order is preserved because match ties resolve to the first
// entry in catalog order.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Entry is one catalog product. Identity for matching is the pair of brand
// number and issue price within tolerance, not exact equality.
type Entry struct {
	BrandNumber string  `csv:"brand_number"`
	ProductName string  `csv:"product_name"`
	IssuePrice  float64 `csv:"issue_price"`
	MRP         float64 `csv:"mrp"`
	SizeCode    string  `csv:"size_code"`
	PackType    string  `csv:"pack_type"`
	Type        string  `csv:"type"`
}

// Repository is the read-only lookup the matcher depends on.
type Repository interface {
	// Lookup returns every entry for the brand number, in catalog order.
	Lookup(brandNumber string) []Entry
	// All returns every entry in catalog order.
	All() []Entry
}

// MemoryRepository is the in-memory Repository backed by a loaded price list.
// Replace swaps the whole list atomically, so a scheduled reload never leaves
// readers with a half-built index.
type MemoryRepository struct {
	entries []Entry
	byBrand map[string][]int
	mu      sync.RWMutex
}

// NewMemoryRepository builds a repository from the given entries.
func NewMemoryRepository(entries []Entry) *MemoryRepository {
	r := &MemoryRepository{}
	r.Replace(entries)
	return r
}

// Replace swaps the catalog contents.
func (r *MemoryRepository) Replace(entries []Entry) {
	byBrand := make(map[string][]int, len(entries))
	for i, e := range entries {
		key := strings.TrimSpace(e.BrandNumber)
		byBrand[key] = append(byBrand[key], i)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.byBrand = byBrand
}

// Lookup returns the entries for a brand number in catalog order.
func (r *MemoryRepository) Lookup(brandNumber string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idxs := r.byBrand[strings.TrimSpace(brandNumber)]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Entry, len(idxs))
	for i, idx := range idxs {
		out[i] = r.entries[idx]
	}
	return out
}

// All returns a copy of every entry in catalog order.
func (r *MemoryRepository) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of loaded entries.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// SearchByName ranks catalog entries against a free-text product-name query
// and returns up to limit results, best match first. Used for operator
// lookups, not for invoice matching.
func (r *MemoryRepository) SearchByName(query string, limit int) []Entry {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	r.mu.RLock()
	names := make([]string, len(r.entries))
	byName := make(map[string][]int, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.ProductName
		byName[e.ProductName] = append(byName[e.ProductName], i)
	}
	entries := r.entries
	r.mu.RUnlock()

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	seen := make(map[int]bool, limit)
	out := make([]Entry, 0, limit)
	for _, rank := range ranks {
		for _, idx := range byName[rank.Target] {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			out = append(out, entries[idx])
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
