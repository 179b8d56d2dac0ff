// Package extract reconstructs reading-order rows from the positioned text
// fragments produced by the document text-layer decoder.
package extract

import "sort"

// Fragment is a single positioned piece of text from the decoded document.
// Coordinates use the PDF convention: y grows upward, so reading order within
// a page is descending y.
type Fragment struct {
	Text string
	X    float64
	Y    float64
	Page int
}

// SortFragments orders fragments into reading order: page ascending, then
// top-to-bottom (y descending), then left-to-right (x ascending).
func SortFragments(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		a, b := frags[i], frags[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
}
