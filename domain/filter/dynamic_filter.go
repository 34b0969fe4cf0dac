package filter

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort orders results by a model field name, e.g. "ApplicationDate".
type Sort struct {
	ColID string        `json:"colId"`
	Sort  SortDirection `json:"sort"`
}

// Direction returns the SQL keyword for s, or false when s is neither asc nor desc.
func (s Sort) Direction() (string, bool) {
	switch SortDirection(strings.ToLower(string(s.Sort))) {
	case SortAsc:
		return "ASC", true
	case SortDesc:
		return "DESC", true
	}
	return "", false
}

type FilterType string

const (
	FilterContains           FilterType = "contains"
	FilterNotContains        FilterType = "notContains"
	FilterEquals             FilterType = "equals"
	FilterNotEqual           FilterType = "notEqual"
	FilterStartsWith         FilterType = "startsWith"
	FilterEndsWith           FilterType = "endsWith"
	FilterLessThan           FilterType = "lessThan"
	FilterLessThanOrEqual    FilterType = "lessThanOrEqual"
	FilterGreaterThan        FilterType = "greaterThan"
	FilterGreaterThanOrEqual FilterType = "greaterThanOrEqual"
	FilterInRange            FilterType = "inRange"
)

var filterTypes = []FilterType{
	FilterContains, FilterNotContains, FilterEquals, FilterNotEqual,
	FilterStartsWith, FilterEndsWith, FilterLessThan, FilterLessThanOrEqual,
	FilterGreaterThan, FilterGreaterThanOrEqual, FilterInRange,
}

// DataType is informational for clients; values are always bound as strings.
type DataType string

const (
	DataTypeText   DataType = "text"
	DataTypeNumber DataType = "number"
	DataTypeDate   DataType = "date"
)

type Filter struct {
	Type       FilterType `json:"type"`
	FilterType DataType   `json:"filterType"`
	From       string     `json:"from,omitempty"`
	To         string     `json:"to,omitempty"`
}

func (f *Filter) Validate() error {
	if !slices.Contains(filterTypes, f.Type) {
		return fmt.Errorf("unknown filter type %q", f.Type)
	}
	if f.Type == FilterInRange && (f.From == "" || f.To == "") {
		return fmt.Errorf("inRange filter requires both 'from' and 'to' values")
	}
	return nil
}

// DynamicFilter is the client-driven search over one model. Keys of Filter
// and Sort.ColID are Go field names of that model.
type DynamicFilter struct {
	Sort   []Sort            `json:"sort,omitempty"`
	Filter map[string]Filter `json:"filter,omitempty"`
}

func (df *DynamicFilter) HasSort() bool {
	return len(df.Sort) > 0
}

// Validate rejects filters or sorts on fields outside columns and any
// malformed entry. Fields are checked in name order so the error is stable.
func (df *DynamicFilter) Validate(columns ...string) error {
	fields := make([]string, 0, len(df.Filter))
	for field := range df.Filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if !slices.Contains(columns, field) {
			return fmt.Errorf("cannot filter on %q", field)
		}
		f := df.Filter[field]
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	for _, s := range df.Sort {
		if !slices.Contains(columns, s.ColID) {
			return fmt.Errorf("cannot sort on %q", s.ColID)
		}
		if _, ok := s.Direction(); !ok {
			return fmt.Errorf("%s: unknown sort direction %q", s.ColID, s.Sort)
		}
	}
	return nil
}
