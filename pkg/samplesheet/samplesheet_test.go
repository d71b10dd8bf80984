package samplesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digestiflow/flowsheet/pkg/barcodes"
)

const manual = "type barcode -->"

func testCatalog() *Catalog {
	return NewCatalog([]BarcodeSet{
		{
			ID:        "set-1",
			Name:      "TruSeq Single",
			ShortName: "truseq",
			SetType:   "default",
			Entries: []BarcodeEntry{
				{ID: "bc-1", Name: "A01", Sequence: "ACGTACGT", Aliases: []string{"idx1"}, BarcodeSet: "set-1"},
				{ID: "bc-2", Name: "A02", Sequence: "TTGGCCAA", BarcodeSet: "set-1"},
			},
		},
		{
			ID:        "set-2",
			Name:      "Nextera i5",
			ShortName: "i5",
			Entries: []BarcodeEntry{
				{ID: "bc-3", Name: "S501", Sequence: "TAGATCGC", BarcodeSet: "set-2"},
			},
		},
	})
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "truseq", ShortName("TruSeq Single (truseq)"))
	assert.Equal(t, "b", ShortName("x (a) (b)"))
	assert.Equal(t, "", ShortName("no parens"))
	assert.Equal(t, "", ShortName(""))
}

func TestCatalogLookups(t *testing.T) {
	cat := testCatalog()

	set, ok := cat.SetByLabel("TruSeq Single (truseq)")
	require.True(t, ok)
	assert.Equal(t, "set-1", set.ID)

	_, ok = cat.SetByLabel(manual)
	assert.False(t, ok)

	entry, ok := set.EntryByName("idx1")
	require.True(t, ok)
	assert.Equal(t, "bc-1", entry.ID)
	assert.Equal(t, "A01 (ACGTACGT)", entry.Label())

	assert.Equal(t, []string{"", manual, "TruSeq Single (truseq)", "Nextera i5 (i5)"}, cat.SetLabels())

	var nilCat *Catalog
	_, ok = nilCat.Barcode("bc-1")
	assert.False(t, ok)
	assert.Equal(t, []string{"", manual}, nilCat.SetLabels())
}

func TestBarcodeSetRecords(t *testing.T) {
	set, ok := testCatalog().Set("set-1")
	require.True(t, ok)

	assert.Equal(t, []barcodes.Record{
		{ID: "bc-1", Name: "A01", Sequence: "ACGTACGT", Aliases: "idx1"},
		{ID: "bc-2", Name: "A02", Sequence: "TTGGCCAA"},
	}, set.Records())
}

func TestReferences(t *testing.T) {
	assert.Equal(t, "hg19", ReferenceKey("human"))
	assert.Equal(t, "mouse", ReferenceLabel("mm9"))
	assert.Equal(t, "__other__", ReferenceKey("other"))
	assert.Equal(t, "GRCh38", ReferenceKey("GRCh38"))
	assert.Equal(t, "GRCh38", ReferenceLabel("GRCh38"))
	assert.Len(t, ReferenceLabels(), 8)
}

func TestLibrariesFromRows(t *testing.T) {
	cat := testCatalog()
	rows := []Row{
		NewRow("lib1", "human", "TruSeq Single (truseq)", "A02 (TTGGCCAA)", "Nextera i5 (i5)", "S501 (TAGATCGC)", "1-3"),
		NewRow("lib2", "mouse", manual, "ACGT", manual, "GGTT", "bogus"),
		NewRow("", "fly", manual, "AAAA", "", "", "1"),
		NewRow("lib3", "yeast", "TruSeq Single (truseq)", "nope", "", "", ""),
	}

	libs := LibrariesFromRows(rows, cat)

	require.Len(t, libs, 3)
	assert.Equal(t, "lib1", libs[0].Name)
	assert.Equal(t, "hg19", libs[0].Reference)
	assert.Equal(t, "bc-2", *libs[0].Barcode)
	assert.Nil(t, libs[0].BarcodeSeq)
	assert.Equal(t, "bc-3", *libs[0].Barcode2)
	assert.Equal(t, []int{1, 2, 3}, libs[0].LaneNumbers)

	assert.Nil(t, libs[1].Barcode)
	assert.Equal(t, "ACGT", *libs[1].BarcodeSeq)
	assert.Equal(t, "GGTT", *libs[1].BarcodeSeq2)
	assert.Equal(t, []int{}, libs[1].LaneNumbers)

	assert.Nil(t, libs[2].Barcode)
	assert.Nil(t, libs[2].Barcode2)
}

func TestRowsFromLibrariesRoundTrip(t *testing.T) {
	cat := testCatalog()
	data := []byte(`[
		{"uuid": "lib-1", "name": "lib1", "reference": "hg19", "barcode": "bc-1", "barcode_seq": null,
		 "barcode2": "bc-3", "barcode_seq2": null, "lane_numbers": [1, 2, 3, 5]},
		{"name": "lib2", "reference": "GRCh38", "barcode": null, "barcode_seq": "ACGT",
		 "barcode2": null, "barcode_seq2": null, "lane_numbers": []}
	]`)
	libs, err := ParseLibraries(data)
	require.NoError(t, err)

	rows, errs := RowsFromLibraries(libs, cat)
	require.Empty(t, errs)
	require.Len(t, rows, 2)
	assert.Equal(t, NewRow("lib1", "human", "TruSeq Single (truseq)", "A01 (ACGTACGT)", "Nextera i5 (i5)", "S501 (TAGATCGC)", "1-3,5").Cells, rows[0].Cells)
	assert.Equal(t, "lib-1", rows[0].ID)
	assert.Equal(t, NewRow("lib2", "GRCh38", manual, "ACGT", "", "", "").Cells, rows[1].Cells)

	back := LibrariesFromRows(rows, cat)
	got, err := MarshalLibraries(back)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"uuid": "lib-1", "name": "lib1", "reference": "hg19", "barcode": "bc-1", "barcode_seq": null,
		 "barcode2": "bc-3", "barcode_seq2": null, "lane_numbers": [1, 2, 3, 5]},
		{"name": "lib2", "reference": "GRCh38", "barcode": null, "barcode_seq": "ACGT",
		 "barcode2": null, "barcode_seq2": null, "lane_numbers": []}
	]`, got)
}

func TestRowsFromLibrariesUnknownBarcode(t *testing.T) {
	missing := "bc-404"
	rows, errs := RowsFromLibraries([]Library{{Name: "lib", Barcode2: &missing}}, testCatalog())

	require.Len(t, errs, 1)
	assert.Equal(t, ColBarcode2, errs[0].Column)
	assert.Equal(t, "", rows[0].Cell(ColBarcodeSet2))
}

func TestParseLibrariesEmptyForm(t *testing.T) {
	for _, in := range []string{"", "{}", "null", " [] "} {
		libs, err := ParseLibraries([]byte(in))
		require.NoError(t, err)
		assert.Empty(t, libs)
	}

	_, err := ParseLibraries([]byte(`[{"name": 1}]`))
	assert.Error(t, err)

	out, err := MarshalLibraries(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestLookupName(t *testing.T) {
	cat := testCatalog()
	tests := []struct {
		name    string
		row     Row
		slot    Slot
		want    string
		changed bool
	}{
		{"name", NewRow("l", "", "TruSeq Single (truseq)", "A02"), Slot1, "A02 (TTGGCCAA)", true},
		{"alias", NewRow("l", "", "TruSeq Single (truseq)", "idx1"), Slot1, "A01 (ACGTACGT)", true},
		{"second slot", NewRow("l", "", "", "", "Nextera i5 (i5)", "S501"), Slot2, "S501 (TAGATCGC)", true},
		{"already a label", NewRow("l", "", "TruSeq Single (truseq)", "A02 (TTGGCCAA)"), Slot1, "A02 (TTGGCCAA)", false},
		{"unknown name", NewRow("l", "", "TruSeq Single (truseq)", "Z99"), Slot1, "Z99", false},
		{"manual", NewRow("l", "", manual, "A02"), Slot1, "A02", false},
		{"no set", NewRow("l", "", "", "A02"), Slot1, "A02", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.row
			assert.Equal(t, tt.changed, LookupName(&row, tt.slot, cat))
			assert.Equal(t, tt.want, row.Cell(tt.slot.BarcodeColumn()))
		})
	}
}

func TestReverseComplementCell(t *testing.T) {
	row := NewRow("l", "", manual, "AACC,ggtA", "TruSeq Single (truseq)", "A01 (ACGTACGT)")

	assert.True(t, ReverseComplementCell(&row, Slot1))
	assert.Equal(t, "GGTT,Tacc", row.Cell(ColBarcode))

	assert.False(t, ReverseComplementCell(&row, Slot2))
	assert.Equal(t, "A01 (ACGTACGT)", row.Cell(ColBarcode2))
}

func TestValidateRow(t *testing.T) {
	cat := testCatalog()
	tests := []struct {
		name    string
		row     Row
		columns []Column
	}{
		{"blank", Row{}, nil},
		{"valid", NewRow("lib_1", "human", "TruSeq Single (truseq)", "A01 (ACGTACGT)", manual, "ACGT", "1-2"), nil},
		{"bad name", NewRow("lib 1"), []Column{ColName}},
		{"barcode without set", NewRow("lib", "", "", "ACGT"), []Column{ColBarcode}},
		{"bad manual sequence", NewRow("lib", "", "", "", manual, "ACGU"), []Column{ColBarcode2}},
		{"barcode not in set", NewRow("lib", "", "TruSeq Single (truseq)", "S501 (TAGATCGC)"), []Column{ColBarcode}},
		{"unknown set", NewRow("lib", "", "Gone (gone)", "x"), []Column{ColBarcodeSet}},
		{"bad lanes", NewRow("lib", "", "", "", "", "", "0-2"), []Column{ColLanes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRow(3, tt.row, cat)
			var cols []Column
			for _, e := range errs {
				assert.Equal(t, 3, e.Row)
				cols = append(cols, e.Column)
			}
			assert.Equal(t, tt.columns, cols)
		})
	}
}

func TestOptions(t *testing.T) {
	cat := testCatalog()

	assert.Equal(t, KindReadOnly, Options(NewRow("l"), ColBarcode, cat).Kind)
	assert.Equal(t, KindText, Options(NewRow("l", "", manual), ColBarcode, cat).Kind)

	opts := Options(NewRow("l", "", "", "", "Nextera i5 (i5)"), ColBarcode2, cat)
	assert.Equal(t, CellOptions{Kind: KindDropdown, Choices: []string{"S501 (TAGATCGC)"}}, opts)

	assert.Equal(t, KindAutocomplete, Options(Row{}, ColReference, cat).Kind)
	assert.Equal(t, "barcode set #2", ColBarcodeSet2.String())
}
