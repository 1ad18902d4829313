package dto

type TurnDTO struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

type SessionHistoryResponse struct {
	SessionID string    `json:"session_id"`
	Turns     []TurnDTO `json:"turns"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
