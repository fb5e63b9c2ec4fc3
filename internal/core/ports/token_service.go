package ports

// TokenVerifier validates a token's signature and expiry and extracts the
// subject id. Revocation checks are not its concern; AuthService owns those.
type TokenVerifier interface {
	VerifyAccess(token string) (userID string, err error)
	VerifyRefresh(token string) (userID string, err error)
}

// TokenService issues and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets so a leaked access secret cannot
// forge refresh tokens, and vice versa.
type TokenService interface {
	TokenVerifier
	IssueAccess(userID string) (string, error)
	IssueRefresh(userID string) (string, error)
}
