package service

import "testing"

func TestNewPageClampsRequestedNumber(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		total     int64
		want      int
		numPages  int
	}{
		{name: "first page", requested: 1, total: 25, want: 1, numPages: 5},
		{name: "last page", requested: 5, total: 25, want: 5, numPages: 5},
		{name: "beyond last", requested: 99, total: 25, want: 5, numPages: 5},
		{name: "zero", requested: 0, total: 25, want: 1, numPages: 5},
		{name: "negative", requested: -3, total: 25, want: 1, numPages: 5},
		{name: "empty result", requested: 3, total: 0, want: 1, numPages: 1},
		{name: "exact multiple", requested: 2, total: 12, want: 2, numPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.requested, DefaultPageSize, tt.total)
			if page.Number != tt.want || page.NumPages != tt.numPages {
				t.Fatalf("expected page %d of %d, got %d of %d", tt.want, tt.numPages, page.Number, page.NumPages)
			}
		})
	}
}

func TestPageNavigation(t *testing.T) {
	page := NewPage(3, 6, 25)

	if page.Offset() != 12 {
		t.Fatalf("expected offset 12, got %d", page.Offset())
	}
	if !page.HasNext() || !page.HasPrevious() || !page.HasOtherPages() {
		t.Fatalf("expected middle page to have neighbours")
	}
	if page.NextPageNumber() != 4 || page.PreviousPageNumber() != 2 {
		t.Fatalf("unexpected neighbours %d/%d", page.PreviousPageNumber(), page.NextPageNumber())
	}
	if got := page.Range(); len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Fatalf("unexpected range %v", got)
	}

	single := NewPage(1, 6, 4)
	if single.HasOtherPages() {
		t.Fatalf("single page should not have other pages")
	}
	if single.NextPageNumber() != 1 || single.PreviousPageNumber() != 1 {
		t.Fatalf("single page neighbours should point to itself")
	}
}

func TestParsePageNumber(t *testing.T) {
	cases := map[string]int{
		"":    1,
		"abc": 1,
		"0":   1,
		"-2":  1,
		"2":   2,
		" 7 ": 7,
		"1.5": 1,
	}
	for raw, want := range cases {
		if got := ParsePageNumber(raw); got != want {
			t.Fatalf("ParsePageNumber(%q) = %d, want %d", raw, got, want)
		}
	}
}
