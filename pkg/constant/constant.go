package constant

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	// LocalsUser is the fiber locals key holding the authenticated claims.
	LocalsUser = "user"

	// LocalsRequestID is the fiber locals key holding the request id.
	LocalsRequestID = "requestID"

	HeaderRequestID = "X-Request-ID"

	// DefaultImageMIMEType is assumed for inline images sent without a data URL prefix.
	DefaultImageMIMEType = "image/jpeg"
)
