package models

// HTTPError represents an HTTP error response
// swagger:model HTTPError
type HTTPError struct {
	// HTTP status code
	Code int `json:"code"`
	// Error message
	Message string `json:"message"`
}

// ResolveResponse represents a response for the resolve endpoint
// swagger:model ResolveResponse
type ResolveResponse struct {
	// Canonical numeric video ID
	VideoID string `json:"video_id"`
}

// CredentialResponse represents a response for the credential endpoint
// swagger:model CredentialResponse
type CredentialResponse struct {
	// valid or invalid
	Status CredentialStatus `json:"status"`
}

// CommentsResponse represents a response for the comments endpoint
// swagger:model CommentsResponse
type CommentsResponse struct {
	RetrievalResult
	// Summary over the returned comments
	Summary Summary `json:"summary"`
	// Error that ended the session early, empty when complete
	Error string `json:"error,omitempty"`
}

// AnalysisResponse represents a response for the analysis endpoint
// swagger:model AnalysisResponse
type AnalysisResponse struct {
	VideoID  string       `json:"video_id"`
	Summary  Summary      `json:"summary"`
	Trend    []TrendPoint `json:"trend"`
	Terms    []CloudTerm  `json:"terms"`
	Complete bool         `json:"complete"`
	Error    string       `json:"error,omitempty"`
}
