package common

const (
	// UserAgent is sent with every backend request.
	UserAgent = "skillshare-client/1.0"

	// RequestIDHeaderName carries a per-request id for server-side correlation.
	RequestIDHeaderName = "X-Request-ID"
)
