package likes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneeqm/bloghub/internal/auth"
	"github.com/aneeqm/bloghub/internal/telemetry/metrics"
)

func TestNewHandler_routes(t *testing.T) {
	r := mux.NewRouter()
	handler := NewHandler(newRepoMock(), auth.NewLoginTestChecker(), metrics.NewTestManager())
	handler.SetupRoutes(r)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"add-like-get": {
			name:   "add-like",
			path:   "/like?post_id=12",
			method: "GET",
		},
		"delete-like-get": {
			name:   "delete-like",
			path:   "/delete-like/12",
			method: "GET",
		},
		"post-likes-get": {
			name:   "post-likes",
			path:   "/post/12/likes",
			method: "GET",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

const testToken = "test_token"

func handlerTestSetup(t *testing.T) (*repoMock, *mux.Router) {
	t.Helper()

	repo := newRepoMock()
	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions[testToken] = 1

	handler := NewHandler(repo, loginChecker, metrics.NewTestManager())
	r := mux.NewRouter()
	handler.SetupRoutes(r)

	return repo, r
}

func TestHandler_addLike(t *testing.T) {
	repo, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/like?post_id=7", nil)
	require.NoError(t, err)
	req.Header.Set(auth.SessionTokenHeader, testToken)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "added:1", rr.Body.String())

	require.Len(t, repo.Likes, 1)
	assert.Equal(t, 1, repo.Likes[1].AuthorID)
	assert.Equal(t, 7, repo.Likes[1].PostID)
}

// the same user liking the same post twice produces two rows
func TestHandler_addLike_duplicatesKept(t *testing.T) {
	repo, r := handlerTestSetup(t)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("GET", "/like?post_id=7", nil)
		require.NoError(t, err)
		req.Header.Set(auth.SessionTokenHeader, testToken)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	count, err := repo.CountForPost(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestHandler_addLike_notLoggedIn(t *testing.T) {
	repo, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/like?post_id=7", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, repo.Likes)
}

func TestHandler_addLike_badPostID(t *testing.T) {
	_, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/like?post_id=abc", nil)
	require.NoError(t, err)
	req.Header.Set(auth.SessionTokenHeader, testToken)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// two likes, one remove, one row left
func TestHandler_removeLike_removesExactlyOne(t *testing.T) {
	repo, r := handlerTestSetup(t)
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 1, PostID: 7}))
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 1, PostID: 7}))

	req, err := http.NewRequest("GET", "/delete-like/7", nil)
	require.NoError(t, err)
	req.Header.Set(auth.SessionTokenHeader, testToken)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "deleted:7", rr.Body.String())

	count, err := repo.CountForPost(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandler_removeLike_notFound(t *testing.T) {
	repo, r := handlerTestSetup(t)
	// a like from another user must not be touched
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 2, PostID: 7}))

	req, err := http.NewRequest("GET", "/delete-like/7", nil)
	require.NoError(t, err)
	req.Header.Set(auth.SessionTokenHeader, testToken)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Len(t, repo.Likes, 1)
}

func TestHandler_removeLike_notLoggedIn(t *testing.T) {
	_, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/delete-like/7", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_likesForPost(t *testing.T) {
	repo, r := handlerTestSetup(t)
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 1, PostID: 7}))
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 2, PostID: 7}))
	require.NoError(t, repo.Add(context.Background(), &Like{AuthorID: 1, PostID: 8}))

	req, err := http.NewRequest("GET", "/post/7/likes", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp LikesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Likes, 2)
}

func TestHandler_likesForPost_empty(t *testing.T) {
	_, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/post/7/likes", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"likes":[],"total":0}`, rr.Body.String())
}
