package request

type MovieListRequest struct {
	PaginatedRequest
	Genre *string `json:"genre,omitempty"`
}

type TheaterListRequest struct {
	PaginatedRequest
	Location *string `json:"location,omitempty"`
}
