package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kislikjeka/txfeed/internal/platform/preference"
	apperrors "github.com/kislikjeka/txfeed/internal/shared/errors"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

const maxPreferenceBody = 4 << 10

// PreferenceService is the preference store used by the handler
type PreferenceService interface {
	Get(ctx context.Context, userID uuid.UUID) (*preference.Preferences, error)
	Update(ctx context.Context, prefs *preference.Preferences) (*preference.Preferences, error)
}

// PreferenceHandler handles display preference requests
type PreferenceHandler struct {
	service PreferenceService
	logger  *logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(service PreferenceService, log *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		service: service,
		logger:  log.WithField("component", "preference_handler"),
	}
}

// UpdatePreferencesRequest updates any subset of the preferences
type UpdatePreferencesRequest struct {
	FiatCode        *string `json:"fiat_code"`
	CryptoPreferred *bool   `json:"crypto_preferred"`
}

// GetPreferences handles GET /api/v1/preferences
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithAppError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	prefs, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("failed to get preferences")
		respondWithAppError(w, apperrors.Internal("failed to get preferences", err))
		return
	}

	respondWithJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/v1/preferences
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithAppError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req UpdatePreferencesRequest
	if err := decodeJSON(w, r, maxPreferenceBody, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	current, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.WithContext(r.Context()).WithError(err).Error("failed to get preferences")
		respondWithAppError(w, apperrors.Internal("failed to get preferences", err))
		return
	}

	next := *current
	next.UserID = userID
	if req.FiatCode != nil {
		next.FiatCode = *req.FiatCode
	}
	if req.CryptoPreferred != nil {
		next.CryptoPreferred = *req.CryptoPreferred
	}

	updated, err := h.service.Update(r.Context(), &next)
	if err != nil {
		switch {
		case errors.Is(err, preference.ErrInvalidFiatCode):
			respondWithAppError(w, apperrors.Validation(preference.ErrInvalidFiatCode.Error()))
			return
		case errors.Is(err, preference.ErrInvalidUserID):
			respondWithAppError(w, apperrors.Validation(preference.ErrInvalidUserID.Error()))
			return
		}
		h.logger.WithContext(r.Context()).WithError(err).Error("failed to update preferences")
		respondWithAppError(w, apperrors.Internal("failed to update preferences", err))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}
