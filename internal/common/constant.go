package common

const (
	// AuthorizationHeaderName carries "Bearer <access token>" in gRPC metadata.
	AuthorizationHeaderName = "authorization"

	// AccessTokenHeaderName is the legacy metadata key that carries the bare
	// access token.
	AccessTokenHeaderName = "access_token"

	// BearerPrefix precedes the token in the authorization header.
	BearerPrefix = "Bearer "
)
