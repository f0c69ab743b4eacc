package response

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	AdminID   uint   `json:"admin_id"`
	AdminName string `json:"admin_name"`
	Email     string `json:"email"`
}

// Error codes the front end can branch on.
const (
	CodeSessionExpired     = "session_expired"
	CodeSubmitInFlight     = "submission_in_flight"
	CodeModalClosed        = "modal_closed"
	CodeNotReviewable      = "not_reviewable"
	CodeBackendFailure     = "backend_failure"
	CodeBackendTimeout     = "backend_timeout"
	CodeApplicationUnknown = "application_not_found"
)
