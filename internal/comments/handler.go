package comments

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

type CommentsResponse struct {
	Comments []*Comment `json:"comments"`
	Total    int        `json:"total"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentsRepo interface {
	Add(ctx context.Context, comment *Comment) error
	Get(ctx context.Context, id int) (*Comment, error)
	Delete(ctx context.Context, id int) error
	ForPost(ctx context.Context, postID int) ([]*Comment, error)
}

type Handler struct {
	repo           commentsRepo
	loginChecker   auth.Checker
	metricsManager *metrics.Manager
}

func NewHandler(
	repo commentsRepo,
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
	router.HandleFunc("/post/{id}", handler.handleAdd).Methods("POST", "OPTIONS").Name("add-comment")
	router.HandleFunc("/post/{id}/comments", handler.handleForPost).Methods("GET", "OPTIONS").Name("post-comments")
	// anyone who knows a comment id can remove it, there is no ownership
	// check here, mirroring the behavior the frontend relies on
	router.HandleFunc("/delete-comment/{id}", handler.handleDelete).Methods("GET", "OPTIONS").Name("delete-comment")
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	postIDStr := mux.Vars(r)["id"]
	postID, err := strconv.Atoi(postIDStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	authorID, err := handler.loginChecker.LoggedInUser(r.Context(), r.Header.Get(auth.SessionTokenHeader))
	if err != nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var commentReq commentRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&commentReq); err != nil {
			log.Errorf("add comment, unmarshal json params: %s", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("add comment, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		commentReq.Text = r.Form.Get("text")
	}

	comment := &Comment{
		Text:     commentReq.Text,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := handler.repo.Add(r.Context(), comment); err != nil {
		switch {
		case errors.Is(err, ErrCommentEmpty):
			http.Error(w, "error, comment text empty", http.StatusBadRequest)
		case errors.Is(err, ErrPostGone):
			http.Error(w, "post not found", http.StatusNotFound)
		default:
			log.Errorf("add comment to post %d failed: %s", postID, err)
			http.Error(w, "add comment failed", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterCommentsAdded.Inc()
	log.Tracef("comment %d added to post %d by user %d", comment.ID, postID, authorID)

	pkg.WriteResponse(
		w,
		pkg.ContentType.Text,
		fmt.Sprintf("added:%d", comment.ID),
		http.StatusCreated,
	)
}

func (handler *Handler) handleForPost(w http.ResponseWriter, r *http.Request) {
	postIDStr := mux.Vars(r)["id"]
	postID, err := strconv.Atoi(postIDStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	postComments, err := handler.repo.ForPost(r.Context(), postID)
	if err != nil {
		log.Errorf("get comments for post %d: %s", postID, err)
		http.Error(w, "failed to get comments", http.StatusInternalServerError)
		return
	}
	if postComments == nil {
		postComments = []*Comment{}
	}

	respBytes, err := json.Marshal(CommentsResponse{
		Comments: postComments,
		Total:    len(postComments),
	})
	if err != nil {
		log.Errorf("marshal comments error: %s", err)
		http.Error(w, "marshal comments error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			http.Error(w, "comment not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete comment %d failed: %s", id, err)
		http.Error(w, "delete comment failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("comment %d deleted", id)

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}
