package v1

import "github.com/andrewsinnovations/apialize-sub000/pkg/query"

// ListResponse is the success envelope of every listing operation.
type ListResponse struct {
	Success bool        `json:"success"`
	Data    []query.Row `json:"data"`
	Meta    Meta        `json:"meta"`
}

// Meta echoes the resolved pagination and, when present, the ordering
// and filters the listing was compiled from.
type Meta struct {
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	Count      int               `json:"count"`
	Order      []query.OrderPair `json:"order,omitempty"`
	Filters    map[string]any    `json:"filters,omitempty"`
}

// ErrorResponse is the failure envelope. Error carries a generic
// message; validation detail stays in the server log.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewListResponse builds the envelope from an executed listing.
func NewListResponse(result *query.Result, req *query.ListRequest) ListResponse {
	order := make([]query.OrderPair, 0, len(result.Order))
	for _, entry := range result.Order {
		order = append(order, entry.Pair())
	}

	var filters map[string]any
	if len(req.Filtering) > 0 {
		filters = map[string]any(req.Filtering)
	}

	data := result.Rows
	if data == nil {
		data = []query.Row{}
	}

	return ListResponse{
		Success: true,
		Data:    data,
		Meta: Meta{
			Page:       result.Window.Page,
			PageSize:   result.Window.Size,
			TotalPages: result.TotalPages(),
			Count:      result.Total,
			Order:      order,
			Filters:    filters,
		},
	}
}

// NewErrorResponse builds the failure envelope.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
