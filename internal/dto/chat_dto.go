package dto

type ChatRequest struct {
	Query      string `json:"query"`
	SessionID  string `json:"session_id" validate:"max=255"`
	DocumentID string `json:"document_id,omitempty" validate:"omitempty,max=255"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
