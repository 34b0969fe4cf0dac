package filter

import "testing"

func TestDynamicFilterValidate(t *testing.T) {
	t.Parallel()

	columns := []string{"FullName", "City", "MonthlyAmount"}

	tests := []struct {
		name    string
		f       DynamicFilter
		wantErr bool
	}{
		{"empty", DynamicFilter{}, false},
		{"allowed filter and sort", DynamicFilter{
			Filter: map[string]Filter{"City": {Type: FilterEquals, From: "Kolkata"}},
			Sort:   []Sort{{ColID: "FullName", Sort: "ASC"}},
		}, false},
		{"range", DynamicFilter{Filter: map[string]Filter{
			"MonthlyAmount": {Type: FilterInRange, From: "100", To: "500"},
		}}, false},
		{"column outside list", DynamicFilter{Filter: map[string]Filter{"Email": {Type: FilterContains, From: "a"}}}, true},
		{"unknown filter type", DynamicFilter{Filter: map[string]Filter{"City": {Type: "like", From: "K"}}}, true},
		{"open range", DynamicFilter{Filter: map[string]Filter{"MonthlyAmount": {Type: FilterInRange, To: "500"}}}, true},
		{"sort outside list", DynamicFilter{Sort: []Sort{{ColID: "ID", Sort: SortAsc}}}, true},
		{"bad direction", DynamicFilter{Sort: []Sort{{ColID: "City", Sort: "random"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.f.Validate(columns...); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	t.Parallel()

	p := PaginationInput{}
	if p.GetPageNumber() != 1 || p.GetPageSize() != defaultPageSize || p.GetOffset() != 0 {
		t.Fatalf("defaults = %d/%d/%d", p.GetPageNumber(), p.GetPageSize(), p.GetOffset())
	}

	p = PaginationInput{PageNumber: 3, PageSize: 1000}
	if p.GetPageSize() != maxPageSize || p.GetOffset() != 2*maxPageSize {
		t.Fatalf("clamped = %d offset %d", p.GetPageSize(), p.GetOffset())
	}

	list := NewPagedList([]string{"a"}, 41, PaginationInput{PageNumber: 3, PageSize: 20})
	if list.TotalPages != 3 || !list.HasPreviousPage || list.HasNextPage {
		t.Fatalf("paged list = %+v", list)
	}

	empty := NewPagedList[string](nil, 0, PaginationInput{})
	if empty.TotalPages != 0 || empty.HasNextPage || empty.HasPreviousPage {
		t.Fatalf("empty list = %+v", empty)
	}
}
