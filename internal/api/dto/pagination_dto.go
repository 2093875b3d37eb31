package dto

// PaginatedResponse wraps offset/limit listings.
type PaginatedResponse struct {
	Count   int64 `json:"count"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	Results any   `json:"results"`
}

func NewPaginatedResponse(results any, count int64, offset, limit int) *PaginatedResponse {
	return &PaginatedResponse{
		Count:   count,
		Offset:  offset,
		Limit:   limit,
		Results: results,
	}
}
