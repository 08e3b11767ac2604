package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testToken = "test_token"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestService(t *testing.T) (*Service, *repoMock, redismock.ClientMock) {
	t.Helper()

	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	repo := newRepoMock()
	service := NewService(repo, time.Hour, rdb)
	service.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	return service, repo, mock
}

func expectNewSession(mock redismock.ClientMock) {
	mock.Regexp().ExpectSet(sessionKeyPrefix+testToken, `^\d+\|\d+$`, 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)
}

func TestParseSessionValue(t *testing.T) {
	userID, createdAt, err := parseSessionValue("42|1700000000")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, time.Unix(1700000000, 0), createdAt)

	_, _, err = parseSessionValue("no-separator")
	assert.Error(t, err)
	_, _, err = parseSessionValue("abc|1700000000")
	assert.Error(t, err)
	_, _, err = parseSessionValue("42|not-unix")
	assert.Error(t, err)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	service, repo, mock := newTestService(t)

	expectNewSession(mock)
	token, user, err := service.Register(ctx, "Aneeq", "aneeq@example.com", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	require.NotNil(t, user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "aneeq@example.com", user.Email)
	assert.NotEqual(t, "s3cr3t", user.PasswordHash)

	// same credentials log in afterwards
	expectNewSession(mock)
	loginToken, loginUser, err := service.Login(ctx, "aneeq@example.com", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, testToken, loginToken)
	assert.Equal(t, user.ID, loginUser.ID)

	usersCount, err := repo.UsersCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, usersCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_duplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, repo, mock := newTestService(t)

	expectNewSession(mock)
	_, _, err := service.Register(ctx, "Aneeq", "aneeq@example.com", "s3cr3t")
	require.NoError(t, err)

	// no session commands expected, the repo rejects first
	_, _, err = service.Register(ctx, "Imposter", "aneeq@example.com", "other-pass")
	assert.ErrorIs(t, err, ErrEmailTaken)

	usersCount, err := repo.UsersCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, usersCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Login_failures(t *testing.T) {
	ctx := context.Background()
	service, repo, mock := newTestService(t)

	expectNewSession(mock)
	_, _, err := service.Register(ctx, "Aneeq", "aneeq@example.com", "s3cr3t")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "unknown@example.com", "s3cr3t")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = service.Login(ctx, "aneeq@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrWrongPassword)

	usersCount, err := repo.UsersCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, usersCount)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	service, _, mock := newTestService(t)

	mock.ExpectDel(sessionKeyPrefix + testToken).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)
	loggedOut, err := service.Logout(ctx, testToken)
	require.NoError(t, err)
	assert.True(t, loggedOut)

	mock.ExpectDel(sessionKeyPrefix + "never-issued").SetVal(0)
	mock.ExpectSRem(tokensSetKey, "never-issued").SetVal(0)
	loggedOut, err = service.Logout(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, loggedOut)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ScanAndClean(t *testing.T) {
	ctx := context.Background()
	service, _, mock := newTestService(t)

	now := time.Now()
	then := now.Add(-2 * time.Hour)

	freshKey := sessionKeyPrefix + "fresh-token"
	oldKey := sessionKeyPrefix + "old-token"

	mock.ExpectSMembers(tokensSetKey).SetVal([]string{"fresh-token", "old-token"})
	mock.ExpectGet(freshKey).SetVal(fmt.Sprintf("1|%d", now.Unix()))
	mock.ExpectGet(oldKey).SetVal(fmt.Sprintf("2|%d", then.Unix()))
	// only the old session gets removed
	mock.ExpectDel(oldKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, "old-token").SetVal(1)

	service.ScanAndClean(ctx)

	assert.NoError(t, mock.ExpectationsWereMet())
}
