package models

// ClassifyRequest asks the inspection server to classify a remote image.
// Filename overrides the name derived from the URL path for category
// detection.
type ClassifyRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Filename string `json:"filename,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
