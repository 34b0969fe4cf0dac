package filter

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaginationInput struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

func (p *PaginationInput) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	}
	return p.PageSize
}

func (p *PaginationInput) GetPageNumber() int {
	if p.PageNumber <= 0 {
		return 1
	}
	return p.PageNumber
}

func (p *PaginationInput) GetOffset() int {
	return (p.GetPageNumber() - 1) * p.GetPageSize()
}

type PaginationInputWithFilter struct {
	PaginationInput
	DynamicFilter
}

type PagedList[T any] struct {
	PageNumber      int   `json:"pageNumber"`
	PageSize        int   `json:"pageSize"`
	TotalRows       int64 `json:"totalRows"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	Items           []T   `json:"items"`
}

func NewPagedList[T any](items []T, totalRows int64, p PaginationInput) PagedList[T] {
	size := p.GetPageSize()
	page := p.GetPageNumber()
	totalPages := int((totalRows + int64(size) - 1) / int64(size))

	return PagedList[T]{
		PageNumber:      page,
		PageSize:        size,
		TotalRows:       totalRows,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
		Items:           items,
	}
}
