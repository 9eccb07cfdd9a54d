package apierror

// Error type URIs following the urn:lifelens:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:lifelens:error:validation"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:lifelens:error:not_found"

	// TypeUnauthorized indicates missing or invalid user scope (401)
	TypeUnauthorized = "urn:lifelens:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:lifelens:error:internal"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:lifelens:error:bad_request"

	// TypeInsufficientData indicates too little history for a statistic (422)
	TypeInsufficientData = "urn:lifelens:error:insufficient_data"

	// TypeUnsupportedMetric indicates a metric no registered module provides (422)
	TypeUnsupportedMetric = "urn:lifelens:error:unsupported_metric"

	// TypeRateLimit indicates the client exceeded the request rate limit (429)
	TypeRateLimit = "urn:lifelens:error:rate_limit"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation        = "Validation Error"
	TitleNotFound          = "Resource Not Found"
	TitleUnauthorized      = "User Scope Required"
	TitleInternal          = "Internal Server Error"
	TitleBadRequest        = "Bad Request"
	TitleInsufficientData  = "Insufficient Data"
	TitleUnsupportedMetric = "Unsupported Metric"
	TitleRateLimit         = "Rate Limit Exceeded"
)
