package handlers

// PaginationQuery holds the page selection shared by every paginated list.
type PaginationQuery struct {
	Page    int64 `default:"1"  doc:"Page number, starting at 1" minimum:"1" query:"page"`
	PerPage int64 `default:"20" doc:"Items per page"             maximum:"100" minimum:"1" query:"per_page"`
}

// PaginatedResponse wraps one page of items with the total count.
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
}

// GenericMessage is the body of plain confirmation responses.
type GenericMessage struct {
	Message string `json:"message"`
}

// MessageResponse is a response carrying only a confirmation message.
type MessageResponse struct {
	Body GenericMessage
}

func message(text string) *MessageResponse {
	return &MessageResponse{Body: GenericMessage{Message: text}}
}
