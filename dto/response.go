package dto

// ErrorResponseDTO is the body of every error response.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"post_not_found"`
	Message string `json:"message,omitempty" example:"post 5 not found"`
}

// DeleteResultDTO confirms a deletion.
type DeleteResultDTO struct {
	Deleted bool `json:"deleted" example:"true"`
}

// HealthDTO is returned by the health check.
type HealthDTO struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage,omitempty" example:"postgres"`
	Error   string `json:"error,omitempty"`
}
