package common

// AuthorizationHeaderName is the gRPC metadata key (and HTTP header, case
// aside) carrying the bearer token.
const AuthorizationHeaderName = "authorization"

// BearerScheme prefixes the token inside the authorization value.
const BearerScheme = "Bearer"

// TokenType is returned next to issued access tokens.
const TokenType = "bearer"
