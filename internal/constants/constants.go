package constants

const (
	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Context keys
	ContextKeyRequestID = "request_id"

	// Headers
	HeaderRequestID  = "X-Request-ID"
	HeaderTotalCount = "X-Total-Count"

	// Content types
	ContentTypeJSON       = "application/json"
	ContentTypeMergePatch = "application/merge-patch+json"

	// Query parameters
	QueryEagerLoad = "eagerload"
	QueryPage      = "page"
	QuerySize      = "size"
	QuerySort      = "sort"
)
