// Package handlers exposes the discussion engine over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/discussion-platform/internal/platform/api"
	"github.com/example/discussion-platform/internal/platform/auth"
	"github.com/example/discussion-platform/internal/platform/httpserver"
	"github.com/example/discussion-platform/internal/store"
	"github.com/example/discussion-platform/internal/threads"
)

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

type reactRequest struct {
	Type string `json:"type"`
}

type historyResponse struct {
	History []threads.HistoryEntry `json:"history"`
}

// actorFrom extracts the authenticated actor, nil for anonymous requests.
func actorFrom(r *http.Request) *threads.Actor {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok || uid == "" {
		return nil
	}
	return &threads.Actor{ID: uid}
}

// intParam parses an optional integer query parameter into dst.
// A present-but-malformed value reports false.
func intParam(r *http.Request, name string, dst *int) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	*dst = n
	return true
}

// GetThread handles GET /v1/posts/{post_id}/comments
func GetThread(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		postID := strings.TrimSpace(chi.URLParam(r, "post_id"))

		q := threads.DefaultThreadQuery()
		ok := intParam(r, "page", &q.Page) &&
			intParam(r, "page_size", &q.PageSize) &&
			intParam(r, "max_depth", &q.MaxDepth) &&
			intParam(r, "replies_per_level", &q.RepliesPerLevel)
		if !ok {
			api.BadRequest(w, "INVALID_ARGUMENT", "pagination parameters must be integers", rid, nil)
			return
		}

		page, err := svc.FetchThread(r.Context(), postID, actorFrom(r), q)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// ExpandReplies handles GET /v1/comments/{comment_id}/replies
func ExpandReplies(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		q := threads.DefaultReplyQuery()
		ok := intParam(r, "offset", &q.Offset) &&
			intParam(r, "limit", &q.Limit) &&
			intParam(r, "max_depth", &q.MaxDepth)
		if !ok {
			api.BadRequest(w, "INVALID_ARGUMENT", "pagination parameters must be integers", rid, nil)
			return
		}

		page, err := svc.ExpandReplies(r.Context(), commentID, actorFrom(r), q)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, page)
	}
}

// CreateComment handles POST /v1/posts/{post_id}/comments
func CreateComment(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		actor := actorFrom(r)
		if actor == nil {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		postID := strings.TrimSpace(chi.URLParam(r, "post_id"))

		var req createCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		node, err := svc.CreateComment(r.Context(), postID, actor, req.Content, req.ParentID)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, node)
	}
}

// EditComment handles PUT /v1/comments/{comment_id}
func EditComment(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		actor := actorFrom(r)
		if actor == nil {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		var req editCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		node, err := svc.EditComment(r.Context(), commentID, actor, req.Content)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, node)
	}
}

// DeleteComment handles DELETE /v1/comments/{comment_id}
func DeleteComment(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		actor := actorFrom(r)
		if actor == nil {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		if err := svc.DeleteComment(r.Context(), commentID, actor); err != nil {
			writeEngineError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// React handles POST /v1/comments/{comment_id}/reactions
func React(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		actor := actorFrom(r)
		if actor == nil {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		var req reactRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		res, err := svc.React(r.Context(), commentID, actor, store.ReactionType(req.Type))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, res)
	}
}

// GetHistory handles GET /v1/comments/{comment_id}/history
func GetHistory(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		entries, err := svc.History(r.Context(), commentID, actorFrom(r))
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, historyResponse{History: entries})
	}
}

// ApproveComment handles POST /v1/comments/{comment_id}/approve
func ApproveComment(svc *threads.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		actor := actorFrom(r)
		if actor == nil {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))

		if err := svc.ApproveComment(r.Context(), commentID, actor); err != nil {
			writeEngineError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
