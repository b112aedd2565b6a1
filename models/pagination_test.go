package models

import "testing"

func TestPaginate_SplitsWithoutLossOrDuplication(t *testing.T) {
	items := make([]int, 0, 47)
	for i := 0; i < 47; i++ {
		items = append(items, i)
	}

	seen := make(map[int]bool)
	first := Paginate(items, 1, 10, LeaderboardMaxPerPage)
	if first.Meta.LastPage != 5 {
		t.Fatalf("last_page = %d, want 5", first.Meta.LastPage)
	}
	for page := 1; page <= first.Meta.LastPage; page++ {
		p := Paginate(items, page, 10, LeaderboardMaxPerPage)
		for _, v := range p.Data {
			if seen[v] {
				t.Fatalf("item %d appeared twice", v)
			}
			seen[v] = true
		}
	}
	if len(seen) != len(items) {
		t.Fatalf("pages covered %d items, want %d", len(seen), len(items))
	}
}

func TestPaginate_EmptySequence(t *testing.T) {
	p := Paginate([]int{}, 1, 20, LeaderboardMaxPerPage)
	if p.Data == nil {
		t.Fatal("data slice is nil, want empty non-nil")
	}
	if len(p.Data) != 0 || p.Meta.Total != 0 {
		t.Fatalf("unexpected page %+v", p)
	}
	if p.Meta.LastPage != 1 {
		t.Fatalf("last_page = %d, want 1 for an empty sequence", p.Meta.LastPage)
	}
}

func TestPaginate_PageBeyondEnd(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 9, 2, LeaderboardMaxPerPage)
	if len(p.Data) != 0 {
		t.Fatalf("page beyond end returned %d items", len(p.Data))
	}
	if p.Data == nil {
		t.Fatal("data slice is nil, want empty non-nil")
	}
	if p.Meta.CurrentPage != 9 || p.Meta.LastPage != 2 || p.Meta.Total != 3 {
		t.Fatalf("unexpected meta %+v", p.Meta)
	}
}

func TestPaginate_ClampsPerPageToCeiling(t *testing.T) {
	items := make([]int, 200)
	p := Paginate(items, 1, 500, LeaderboardMaxPerPage)
	if p.Meta.PerPage != LeaderboardMaxPerPage || len(p.Data) != LeaderboardMaxPerPage {
		t.Fatalf("per_page = %d, len = %d, want both %d", p.Meta.PerPage, len(p.Data), LeaderboardMaxPerPage)
	}

	p = Paginate(items, 1, 500, AutopaymentListingMaxPerPage)
	if p.Meta.PerPage != AutopaymentListingMaxPerPage {
		t.Fatalf("per_page = %d, want %d", p.Meta.PerPage, AutopaymentListingMaxPerPage)
	}
}

func TestPaginate_DefaultsInvalidInputs(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 0, 0, LeaderboardMaxPerPage)
	if p.Meta.CurrentPage != 1 {
		t.Fatalf("current_page = %d, want 1", p.Meta.CurrentPage)
	}
	if p.Meta.PerPage != DefaultPerPage {
		t.Fatalf("per_page = %d, want default %d", p.Meta.PerPage, DefaultPerPage)
	}
	p = Paginate(items, -3, -1, LeaderboardMaxPerPage)
	if p.Meta.CurrentPage != 1 || p.Meta.PerPage != DefaultPerPage {
		t.Fatalf("negative inputs not clamped: %+v", p.Meta)
	}
}
