package models

import "testing"

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	if p.TotalPages != 4 {
		t.Fatalf("total pages = %d, want 4", p.TotalPages)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("page 2 of 4 should have both neighbours: %+v", p)
	}
	if p.NextPage == nil || *p.NextPage != 3 {
		t.Fatalf("next page = %v, want 3", p.NextPage)
	}
	if p.PrevPage == nil || *p.PrevPage != 1 {
		t.Fatalf("prev page = %v, want 1", p.PrevPage)
	}
}

func TestNewPagination_Edges(t *testing.T) {
	first := NewPagination(1, 10, 35)
	if first.HasPrevPage || first.PrevPage != nil {
		t.Fatalf("first page should have no previous: %+v", first)
	}

	last := NewPagination(4, 10, 35)
	if last.HasNextPage || last.NextPage != nil {
		t.Fatalf("last page should have no next: %+v", last)
	}

	empty := NewPagination(1, 10, 0)
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPrevPage {
		t.Fatalf("empty result pagination = %+v", empty)
	}

	exact := NewPagination(3, 10, 30)
	if exact.TotalPages != 3 || exact.HasNextPage {
		t.Fatalf("exact fit pagination = %+v", exact)
	}
}
