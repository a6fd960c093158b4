package nominatesdk

// ============================================================================
// Wire types shared by the service handlers and this client
// ============================================================================

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SubmitResponse is returned by POST /submit.
type SubmitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// LoginRequest is the body of POST /admin/login.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse reports whether the credentials were accepted. A false
// value is not an error.
type LoginResponse struct {
	Success bool `json:"success"`
}

// LogoutResponse is returned by POST /admin/logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// NominationSummary is one row of GET /admin/nominations.
type NominationSummary struct {
	ID            string  `json:"id"`
	NominatorName string  `json:"nominator_name"`
	NomineeName   string  `json:"nominee_name"`
	Category      string  `json:"category"`
	CVReference   *string `json:"cv_reference"` // null when no CV was attached
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains the status of individual components (readyz only)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the record store status
	Database string `json:"database"`

	// BlobStore indicates the CV storage status
	BlobStore string `json:"blob_store"`
}
