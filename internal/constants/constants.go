package constants

import "time"

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Authentication
const (
	MinNameLength     = 2
	MinPasswordLength = 6
	BcryptCost        = 10
	TokenTTL          = 30 * 24 * time.Hour
	BearerPrefix      = "Bearer "
)

// Rate limiting for credential endpoints
const (
	AuthRateLimit  = 5
	AuthRatePeriod = 15 * time.Minute
)

// Gin context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)
