package errors

// Record-store HTTP helpers: map upstream status codes to project ErrorCode
// and classify which of them are worth retrying

import "net/http"

// FromCRMStatus maps an upstream HTTP status to a wrapped *Error.
// Pass the status the record store answered with and a short op message
func FromCRMStatus(status int, msg string) error {
	return Newf(crmErrorCode(status), "%s: upstream status %d", msg, status)
}

func crmErrorCode(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return ErrorCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case status == http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrorCodeForbidden
	case status == http.StatusConflict:
		return ErrorCodeConflict
	case status >= 400 && status < 500:
		return ErrorCodeInvalidArgument
	case status >= 500:
		return ErrorCodeUnavailable
	default:
		return ErrorCodeUnknown
	}
}

// IsRetryableCRM reports whether an upstream error is transient.
// Rate limiting and 5xx answers qualify; auth and validation failures do not
func IsRetryableCRM(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeTooManyRequests, ErrorCodeUnavailable:
		return true
	}
	return false
}
