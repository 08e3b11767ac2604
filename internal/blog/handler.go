package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/aneeqm/bloghub/internal/auth"
	"github.com/aneeqm/bloghub/internal/telemetry/metrics"
	"github.com/aneeqm/bloghub/pkg"
)

type PostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

type postRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
}

type postsRepo interface {
	AddPost(ctx context.Context, post *Post) error
	UpdatePost(ctx context.Context, id int, title, subtitle, body, imageURL string) error
	DeletePost(ctx context.Context, id int) error
	GetPost(ctx context.Context, id int) (*Post, error)
	All(ctx context.Context) ([]*Post, error)
	PostsCount(ctx context.Context) (int, error)
	GetPostsPage(ctx context.Context, page, size int) ([]*Post, error)
}

type Handler struct {
	repo           postsRepo
	loginChecker   auth.Checker
	metricsManager *metrics.Manager
}

func NewHandler(
	repo postsRepo,
	loginChecker auth.Checker,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		loginChecker:   loginChecker,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", handler.handleAll).Methods("GET", "OPTIONS").Name("all-posts")
	router.HandleFunc("/posts/page/{page}/size/{size}", handler.handleGetPage).Methods("GET").Name("posts-page")
	router.HandleFunc("/post/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("get-post")
	router.HandleFunc("/new-post", handler.handleNew).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/edit-post/{id}", handler.handleEdit).Methods("POST", "OPTIONS").Name("edit-post")
	router.HandleFunc("/delete/{id}", handler.handleDelete).Methods("GET", "OPTIONS").Name("delete-post")
}

// loggedInUser resolves the caller's identity from the session token header.
// Returns auth.ErrNotLoggedIn for anonymous callers.
func (handler *Handler) loggedInUser(r *http.Request) (int, error) {
	return handler.loginChecker.LoggedInUser(r.Context(), r.Header.Get(auth.SessionTokenHeader))
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	posts, err := handler.repo.All(r.Context())
	if err != nil {
		log.Errorf("get all posts: %s", err)
		http.Error(w, "failed to get posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*Post{}
	}

	respBytes, err := json.Marshal(PostsResponse{
		Posts: posts,
		Total: len(posts),
	})
	if err != nil {
		log.Errorf("marshal posts error: %s", err)
		http.Error(w, "marshal posts error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "error, page NaN", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "error, size NaN", http.StatusBadRequest)
		return
	}
	if page < 1 || size < 1 {
		http.Error(w, "error, page or size invalid", http.StatusBadRequest)
		return
	}

	posts, err := handler.repo.GetPostsPage(r.Context(), page, size)
	if err != nil {
		log.Errorf("get posts page: %s", err)
		http.Error(w, "failed to get posts", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*Post{}
	}

	total, err := handler.repo.PostsCount(r.Context())
	if err != nil {
		log.Errorf("get posts count: %s", err)
		http.Error(w, "failed to get posts", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(PostsResponse{
		Posts: posts,
		Total: total,
	})
	if err != nil {
		log.Errorf("marshal posts error: %s", err)
		http.Error(w, "marshal posts error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	post, err := handler.repo.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get post %d: %s", id, err)
		http.Error(w, "failed to get post", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(post)
	if err != nil {
		log.Errorf("marshal post error: %s", err)
		http.Error(w, "marshal post error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	authorID, err := handler.loggedInUser(r)
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	postReq, ok := handler.decodePostRequest(w, r)
	if !ok {
		return
	}

	newPost := &Post{
		Title:    postReq.Title,
		Subtitle: postReq.Subtitle,
		Body:     postReq.Body,
		ImageURL: postReq.ImageURL,
		AuthorID: authorID,
	}

	if err := handler.repo.AddPost(r.Context(), newPost); err != nil {
		switch {
		case errors.Is(err, ErrTitleTaken):
			http.Error(w, "error, title already taken", http.StatusConflict)
		case errors.Is(err, ErrPostFieldsEmpty):
			http.Error(w, "error, title, subtitle or body empty", http.StatusBadRequest)
		default:
			log.Errorf("add new post failed: %s", err)
			http.Error(w, "add new post failed", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterPostsCreated.Inc()
	log.Tracef("new post %d: [%s] added by user %d", newPost.ID, newPost.Title, authorID)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", newPost.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	// anonymous callers fail the owner check, no separate 401 branch
	callerID, _ := handler.loggedInUser(r)
	if err := CheckPostOwner(r.Context(), handler.repo, id, callerID); err != nil {
		handler.writeGuardError(w, id, err)
		return
	}

	postReq, ok := handler.decodePostRequest(w, r)
	if !ok {
		return
	}

	err = handler.repo.UpdatePost(r.Context(), id, postReq.Title, postReq.Subtitle, postReq.Body, postReq.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleTaken):
			http.Error(w, "error, title already taken", http.StatusConflict)
		case errors.Is(err, ErrPostFieldsEmpty):
			http.Error(w, "error, title, subtitle or body empty", http.StatusBadRequest)
		case errors.Is(err, ErrPostNotFound):
			http.Error(w, "post not found", http.StatusNotFound)
		default:
			log.Errorf("update post %d failed: %s", id, err)
			http.Error(w, "update post failed", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	callerID, _ := handler.loggedInUser(r)
	if err := CheckPostOwner(r.Context(), handler.repo, id, callerID); err != nil {
		handler.writeGuardError(w, id, err)
		return
	}

	if err := handler.repo.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete post %d failed: %s", id, err)
		http.Error(w, "delete post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("post %d deleted", id)

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) decodePostRequest(w http.ResponseWriter, r *http.Request) (postRequest, bool) {
	var postReq postRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&postReq); err != nil {
			log.Errorf("post request, unmarshal json params: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return postRequest{}, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("post request, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return postRequest{}, false
		}
		postReq = postRequest{
			Title:    r.Form.Get("title"),
			Subtitle: r.Form.Get("subtitle"),
			Body:     r.Form.Get("body"),
			ImageURL: r.Form.Get("image_url"),
		}
	}

	return postReq, true
}

func (handler *Handler) writeGuardError(w http.ResponseWriter, postID int, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	default:
		log.Errorf("post %d owner check: %s", postID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
