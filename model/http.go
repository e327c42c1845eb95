package model

type ErrorResponse struct {
	Error string `json:"detail"`
}

type LevelsResponse struct {
	Levels []string `json:"levels"`
}
