package extract

import "strings"

// Row is a visual line reassembled from fragments, with the page and the
// reference y of its first fragment.
type Row struct {
	Page int
	Y    float64
	Text string
}

// rowTolerance is how far apart two fragments' y values may be while still
// belonging to the same visual row.
const rowTolerance = 5.0

// AssembleRows clusters pre-sorted fragments into visual rows. The first
// fragment of each row seeds the reference y; any following fragment within
// rowTolerance of that reference (on the same page) joins the row. Fragment
// texts are joined with single spaces. Whitespace-only fragments are skipped;
// every other fragment lands in exactly one row.
func AssembleRows(frags []Fragment) []Row {
	var rows []Row
	var current []string
	var refY float64
	var page int
	open := false

	flush := func() {
		if !open {
			return
		}
		rows = append(rows, Row{Page: page, Y: refY, Text: strings.Join(current, " ")})
		current = current[:0]
		open = false
	}

	for _, f := range frags {
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		if open && f.Page == page && abs(f.Y-refY) <= rowTolerance {
			current = append(current, text)
			continue
		}
		flush()
		current = append(current, text)
		refY = f.Y
		page = f.Page
		open = true
	}
	flush()

	return rows
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
