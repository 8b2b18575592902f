package handlers

import (
	"errors"
	"net/http"

	"github.com/example/discussion-platform/internal/platform/api"
	"github.com/example/discussion-platform/internal/platform/httpserver"
	"github.com/example/discussion-platform/internal/threads"
)

// writeEngineError maps the engine's error taxonomy onto the HTTP envelope.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())
	var ve *threads.ValidationError
	switch {
	case errors.As(err, &ve):
		api.BadRequest(w, "INVALID_ARGUMENT", ve.Error(), rid, map[string]any{"field": ve.Field})
	case errors.Is(err, threads.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "comment not found", rid)
	case errors.Is(err, threads.ErrForbidden):
		api.Forbidden(w, "FORBIDDEN", "operation not permitted", rid)
	case errors.Is(err, threads.ErrDepthLimit):
		api.Conflict(w, "DEPTH_LIMIT", "reply depth limit reached", rid, nil)
	default:
		api.Internal(w, rid)
	}
}
