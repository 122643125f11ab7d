package utils

// maxPageSize caps one page of transaction history so a single request
// cannot pull the whole log.
const maxPageSize = 100

// PaginationParams holds a sanitized page request.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta describes the page that was served.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams sanitizes raw page and limit values. Page floors
// at 1; limit 0 means unpaginated, anything above maxPageSize is
// clamped.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 0:
		limit = 0
	case limit > maxPageSize:
		limit = maxPageSize
	}
	return PaginationParams{Page: page, Limit: limit}
}

// CalculateOffset returns the row offset of the requested page.
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta derives response metadata from the total row count. An
// unpaginated request reports a single page holding everything.
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{
			Page:       1,
			Limit:      int(totalCount),
			TotalCount: totalCount,
			TotalPages: 1,
		}
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
