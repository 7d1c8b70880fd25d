package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyceo-backend/internal/analysis"
	"tinyceo-backend/internal/auth"
	"tinyceo-backend/internal/services"
	"tinyceo-backend/pkg/httputil"
)

// maxBodyBytes caps request bodies; the largest field accepted is a 5000 char message.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// userID returns the authenticated user, answering 401 when the context has none.
func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return uuid.Nil, false
	}
	return id, true
}

// workspaceID parses the {workspaceID} URL parameter.
func workspaceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid workspace ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service errors to status codes. Unknown errors
// are logged and answered with a generic 500 carrying internalMsg.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidAgentType),
		errors.Is(err, services.ErrConversationNotReady),
		errors.Is(err, analysis.ErrEmptyConversation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUserAlreadyExists):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrNoConversation):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error(internalMsg, zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, internalMsg)
	}
}
