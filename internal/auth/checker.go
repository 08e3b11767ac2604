package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token to the logged-in user id.
// Returns ErrNotLoggedIn for unknown or expired tokens.
type Checker interface {
	LoggedInUser(ctx context.Context, token string) (int, error)
}
