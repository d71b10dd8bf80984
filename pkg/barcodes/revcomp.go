package barcodes

var complements = map[rune]rune{
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C',
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c',
}

// RevComp returns the reverse complement of a nucleotide sequence. Case is
// preserved and characters other than ACGT (N, separators, garbage) are kept
// as they are, so RevComp(RevComp(s)) == s for every s.
func RevComp(s string) string {
	runes := []rune(s)
	out := make([]rune, len(runes))
	for i, r := range runes {
		if c, ok := complements[r]; ok {
			r = c
		}
		out[len(runes)-1-i] = r
	}
	return string(out)
}

// RevCompRows replaces the sequence of the selected rows with its reverse
// complement. Indices outside rows are ignored; each row is transformed at
// most once even when selected twice.
func RevCompRows(rows Rows, indices []int) int {
	seen := make(map[int]bool, len(indices))
	n := 0
	for _, i := range indices {
		if i < 0 || i >= len(rows) || seen[i] {
			continue
		}
		seen[i] = true
		if rows[i].Sequence == "" {
			continue
		}
		rows[i].Sequence = RevComp(rows[i].Sequence)
		n++
	}
	return n
}
