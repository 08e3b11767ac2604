package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecker_LoggedInUser(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() {
		_ = rdb.Close()
	}()

	loginChecker := NewLoginChecker(time.Hour, rdb)
	require.NotNil(t, loginChecker)

	ctx := context.Background()

	// empty token never hits redis
	_, err := loginChecker.LoggedInUser(ctx, "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	mock.ExpectGet(sessionKeyPrefix + "invalid-token").SetErr(redis.Nil)
	_, err = loginChecker.LoggedInUser(ctx, "invalid-token")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken

	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("42|%d", now.Unix()))
	userID, err := loginChecker.LoggedInUser(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	// session older than the ttl
	then := now.Add(-2 * time.Hour)
	mock.ExpectGet(sessionKey).SetVal(fmt.Sprintf("42|%d", then.Unix()))
	_, err = loginChecker.LoggedInUser(ctx, testToken)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// malformed session value
	mock.ExpectGet(sessionKey).SetVal("garbage")
	_, err = loginChecker.LoggedInUser(ctx, testToken)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginTestChecker(t *testing.T) {
	checker := NewLoginTestChecker()
	checker.LoggedSessions["tok"] = 7

	userID, err := checker.LoggedInUser(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 7, userID)

	_, err = checker.LoggedInUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
