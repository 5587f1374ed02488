package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	ContextKeyRecord    = "account_record"
	ContextKeyRequestID = "request_id"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerScheme        = "Bearer"
)

// Validation
const (
	MinPasswordLength = 6
	MinPhoneLength    = 11
	MaxPhoneLength    = 20
	MaxNameLength     = 50
	MaxCategoryLength = 50
	MaxIconLength     = 20
	MaxColorLength    = 7
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Statistics
const (
	TrendMonths = 6
)

// Category defaults
const (
	DefaultCategoryIcon  = "📝"
	DefaultCategoryColor = "#1989fa"
)
