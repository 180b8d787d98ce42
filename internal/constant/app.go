package constant

import "time"

const (
	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"
)

const (
	QUERY_TIMEOUT_DURATION = 10 * time.Second
	// DDL on a large table can take longer than ordinary queries.
	MIGRATION_TIMEOUT_DURATION = 5 * time.Minute
)

const (
	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"
)

const APP_VERSION = "2.0.0"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// gin context keys
const (
	CTX_AUTH_USER  = "user"
	CTX_REQUEST_ID = "requestId"
)
