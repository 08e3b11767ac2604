package auth

import (
	"context"
	"sync"
)

// LoginTestChecker is used in unit tests in place of the redis backed LoginChecker
type LoginTestChecker struct {
	LoggedSessions map[string]int // token -> user id
	mutex          sync.Mutex
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: make(map[string]int),
	}
}

func (c *LoginTestChecker) LoggedInUser(_ context.Context, token string) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	userID, ok := c.LoggedSessions[token]
	if !ok {
		return 0, ErrNotLoggedIn
	}
	return userID, nil
}
