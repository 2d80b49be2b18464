package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := Pagination{}.Normalize()
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("expected page 1 limit %d, got %+v", DefaultLimit, p)
	}
}

func TestOffset(t *testing.T) {
	p := Pagination{Page: 3, Limit: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
	big := Pagination{Page: 1, Limit: 1000}.Normalize()
	if big.Limit != MaxLimit {
		t.Fatalf("expected limit clamped to %d, got %d", MaxLimit, big.Limit)
	}
}
