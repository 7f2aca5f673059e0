package types

// SuccessEnvelope is the storefront API's success wrapper.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the error body inside an ErrorEnvelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the storefront API's failure wrapper.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
