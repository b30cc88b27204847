package common

// RequestIDHeaderName is the HTTP header carrying the per-request
// correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Modes understood by the bootstrap. Anything that is not ModeTest uses the
// production storage path.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)
