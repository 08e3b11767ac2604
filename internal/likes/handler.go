package likes

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

type LikesResponse struct {
	Likes []*Like `json:"likes"`
	Total int     `json:"total"`
}

type likesRepo interface {
	Add(ctx context.Context, like *Like) error
	Remove(ctx context.Context, authorID, postID int) error
	CountForPost(ctx context.Context, postID int) (int, error)
	ForPost(ctx context.Context, postID int) ([]*Like, error)
}

type Handler struct {
	repo           likesRepo
	loginChecker   auth.Checker
	metricsManager *metrics.Manager
}

func NewHandler(
	repo likesRepo,
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
	router.HandleFunc("/like", handler.handleAdd).Methods("GET", "OPTIONS").Name("add-like")
	router.HandleFunc("/delete-like/{post_id}", handler.handleRemove).Methods("GET", "OPTIONS").Name("delete-like")
	router.HandleFunc("/post/{id}/likes", handler.handleForPost).Methods("GET", "OPTIONS").Name("post-likes")
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	authorID, err := handler.loginChecker.LoggedInUser(r.Context(), r.Header.Get(auth.SessionTokenHeader))
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	postID, err := strconv.Atoi(r.URL.Query().Get("post_id"))
	if err != nil {
		http.Error(w, "error, post_id NaN", http.StatusBadRequest)
		return
	}

	like := &Like{
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := handler.repo.Add(r.Context(), like); err != nil {
		if errors.Is(err, ErrPostGone) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("add like to post %d failed: %s", postID, err)
		http.Error(w, "add like failed", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterLikes.Inc()
	log.Tracef("post %d liked by user %d", postID, authorID)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", like.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	authorID, err := handler.loginChecker.LoggedInUser(r.Context(), r.Header.Get(auth.SessionTokenHeader))
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	postIDStr := mux.Vars(r)["post_id"]
	postID, err := strconv.Atoi(postIDStr)
	if err != nil {
		http.Error(w, "error, post_id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Remove(r.Context(), authorID, postID); err != nil {
		if errors.Is(err, ErrLikeNotFound) {
			http.Error(w, "like not found", http.StatusNotFound)
			return
		}
		log.Errorf("remove like, post %d, user %d: %s", postID, authorID, err)
		http.Error(w, "remove like failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", postID))
}

func (handler *Handler) handleForPost(w http.ResponseWriter, r *http.Request) {
	postIDStr := mux.Vars(r)["id"]
	postID, err := strconv.Atoi(postIDStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	postLikes, err := handler.repo.ForPost(r.Context(), postID)
	if err != nil {
		log.Errorf("get likes for post %d: %s", postID, err)
		http.Error(w, "failed to get likes", http.StatusInternalServerError)
		return
	}
	if postLikes == nil {
		postLikes = []*Like{}
	}

	respBytes, err := json.Marshal(LikesResponse{
		Likes: postLikes,
		Total: len(postLikes),
	})
	if err != nil {
		log.Errorf("marshal likes error: %s", err)
		http.Error(w, "marshal likes error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}
