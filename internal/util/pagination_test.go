package util

import "testing"

func TestParsePagination_Defaults(t *testing.T) {
	p, err := ParsePagination("", "", "")
	if err != nil {
		t.Fatalf("ParsePagination error: %v", err)
	}
	if p.Limit != 20 || p.Offset != 0 || p.Order != "DESC" {
		t.Errorf("defaults = %+v, want limit 20, offset 0, order DESC", p)
	}
}

func TestParsePagination_Clamping(t *testing.T) {
	testCases := []struct {
		limit, offset string
		wantLimit     int
		wantOffset    int
	}{
		{"50", "10", 50, 10},
		{"0", "0", 1, 0},
		{"-5", "-3", 1, 0},
		{"500", "0", 100, 0},
	}

	for _, tc := range testCases {
		p, err := ParsePagination(tc.limit, tc.offset, "")
		if err != nil {
			t.Errorf("ParsePagination(%q, %q) error = %v", tc.limit, tc.offset, err)
			continue
		}
		if p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Errorf("ParsePagination(%q, %q) = %+v, want limit %d offset %d",
				tc.limit, tc.offset, p, tc.wantLimit, tc.wantOffset)
		}
	}
}

func TestParsePagination_Invalid(t *testing.T) {
	if _, err := ParsePagination("abc", "", ""); err == nil {
		t.Error("non-numeric limit accepted")
	}
	if _, err := ParsePagination("", "abc", ""); err == nil {
		t.Error("non-numeric offset accepted")
	}
	if _, err := ParsePagination("", "", "sideways"); err == nil {
		t.Error("unknown order accepted")
	}
}

func TestParsePagination_OrderCaseInsensitive(t *testing.T) {
	for _, order := range []string{"asc", "ASC", "Asc"} {
		p, err := ParsePagination("", "", order)
		if err != nil {
			t.Errorf("ParsePagination order %q error = %v", order, err)
			continue
		}
		if p.Order != "ASC" {
			t.Errorf("ParsePagination order %q = %q, want ASC", order, p.Order)
		}
	}
}

func TestPagination_Page(t *testing.T) {
	testCases := []struct {
		limit, offset, want int
	}{
		{20, 0, 0},
		{20, 20, 1},
		{20, 39, 1},
		{20, 40, 2},
		{10, 95, 9},
	}

	for _, tc := range testCases {
		p := Pagination{Limit: tc.limit, Offset: tc.offset}
		if got := p.Page(); got != tc.want {
			t.Errorf("Page(limit=%d, offset=%d) = %d, want %d", tc.limit, tc.offset, got, tc.want)
		}
	}
}
