package dto

type ChatRequest struct {
	Content string `json:"content" validate:"required"`
}

type ChatResponse struct {
	Content string `json:"content"`
}
