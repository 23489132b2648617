package common

// AuthorizationHeaderName carries the bearer token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value inside the Authorization header.
const BearerPrefix = "Bearer "

// Keys of the client-side persisted metadata.
const (
	SessionIDKey   = "session_id"
	AccessTokenKey = "access_token"
)
