package domain

import "testing"

func TestNewPage(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		total      int64
		totalPages int
		first      bool
		last       bool
	}{
		{"single page", 0, 10, 3, 1, true, true},
		{"first of many", 0, 10, 25, 3, true, false},
		{"middle", 1, 10, 25, 3, false, false},
		{"last", 2, 10, 25, 3, false, true},
		{"past the end", 5, 10, 25, 3, false, true},
		{"empty", 0, 10, 0, 1, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage([]int{1}, tc.page, tc.size, tc.total)
			if p.TotalPages != tc.totalPages {
				t.Fatalf("TotalPages = %d, want %d", p.TotalPages, tc.totalPages)
			}
			if p.First != tc.first || p.Last != tc.last {
				t.Fatalf("First/Last = %v/%v, want %v/%v", p.First, p.Last, tc.first, tc.last)
			}
			if p.TotalElements != tc.total {
				t.Fatalf("TotalElements = %d, want %d", p.TotalElements, tc.total)
			}
		})
	}
}

func TestNewPageNilContent(t *testing.T) {
	p := NewPage[int](nil, 0, 10, 0)
	if p.Content == nil {
		t.Fatal("content must never be nil")
	}
	if len(p.Content) != 0 {
		t.Fatalf("expected empty content, got %v", p.Content)
	}
}

func TestOffset(t *testing.T) {
	p := PaginationRequest{Page: 3, Size: 20}
	if got := p.Offset(); got != 60 {
		t.Fatalf("Offset = %d, want 60", got)
	}
}
