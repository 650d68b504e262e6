package app

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		body string
		want int
	}{
		{words(400), 2},
		{words(150), 1},
		{words(200), 1},
		{words(201), 2},
		{"one", 1},
		{"  spaced\n\tout   words ", 1},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.body); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", len(strings.Fields(tt.body)), got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                string
		total               int64
		page, limit         int
		wantPage, wantPages int
		wantOffset          int
	}{
		{"first page", 45, 1, 20, 1, 3, 0},
		{"middle page", 45, 2, 20, 2, 3, 20},
		{"beyond last clamps", 45, 9, 20, 3, 3, 40},
		{"zero clamps to one", 45, 0, 20, 1, 3, 0},
		{"negative clamps to one", 45, -4, 20, 1, 3, 0},
		{"exact multiple", 40, 2, 20, 2, 2, 20},
		{"empty set", 0, 5, 20, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.total, tt.page, tt.limit)
			if p.Page != tt.wantPage || p.TotalPages != tt.wantPages || p.Offset != tt.wantOffset {
				t.Fatalf("Paginate() = %+v", p)
			}
		})
	}
}
