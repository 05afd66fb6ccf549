package responses

// SuccessEnvelope always carries a data key, null included.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps the caller-facing error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError.Details carries per-field messages for validation failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
