package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ConnectResponse is returned by a successful sign-in.
type ConnectResponse struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
