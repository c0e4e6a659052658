package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kislikjeka/txfeed/internal/module/txlist"
	"github.com/kislikjeka/txfeed/internal/platform/txrow"
	apperrors "github.com/kislikjeka/txfeed/internal/shared/errors"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
	maxItemsBody     = 4 << 20
)

// AdapterProvider returns the list adapter of a user
type AdapterProvider interface {
	Get(userID uuid.UUID) *txlist.Adapter
}

// FeedHandler exposes a user's transaction list over HTTP
type FeedHandler struct {
	adapters AdapterProvider
	logger   *logger.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(adapters AdapterProvider, log *logger.Logger) *FeedHandler {
	return &FeedHandler{
		adapters: adapters,
		logger:   log.WithField("component", "feed_handler"),
	}
}

// SetItemsRequest replaces the user's list
type SetItemsRequest struct {
	Items []txrow.WalletTransaction `json:"items"`
}

// CountResponse reports the number of items in the list
type CountResponse struct {
	Count int `json:"count"`
}

// RowsResponse is a page of bound rows
type RowsResponse struct {
	Rows   []txlist.BoundRow `json:"rows"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
	Total  int               `json:"total"`
}

// ClickResponse carries the selected transaction
type ClickResponse struct {
	Transaction txrow.WalletTransaction `json:"transaction"`
}

// SetItems handles PUT /api/v1/feed/items
func (h *FeedHandler) SetItems(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}

	var req SetItemsRequest
	if err := decodeJSON(w, r, maxItemsBody, &req); err != nil {
		respondWithAppError(w, err)
		return
	}

	adapter.SetItems(req.Items)
	respondWithJSON(w, http.StatusOK, CountResponse{Count: adapter.ItemCount()})
}

// GetCount handles GET /api/v1/feed/count
func (h *FeedHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, CountResponse{Count: adapter.ItemCount()})
}

// GetRows handles GET /api/v1/feed/rows?offset=&limit=
func (h *FeedHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondWithAppError(w, apperrors.Validation("offset must be a non-negative integer"))
		return
	}
	limit, err := queryInt(r, "limit", defaultPageLimit)
	if err != nil || limit < 1 || limit > maxPageLimit {
		respondWithAppError(w, apperrors.Validation("limit must be between 1 and 500"))
		return
	}

	rows, err := adapter.BindRange(r.Context(), offset, limit)
	if err != nil {
		respondWithAppError(w, mapListError(err))
		return
	}

	total := adapter.ItemCount()
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	respondWithJSON(w, http.StatusOK, RowsResponse{
		Rows:   rows,
		Offset: offset,
		Limit:  limit,
		Total:  total,
	})
}

// GetRow handles GET /api/v1/feed/rows/{position}
func (h *FeedHandler) GetRow(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	viewType, err := adapter.ItemViewType(position)
	if err != nil {
		respondWithAppError(w, mapListError(err))
		return
	}
	row, err := adapter.CreateRow(viewType)
	if err != nil {
		respondWithAppError(w, mapListError(err))
		return
	}
	if err := adapter.Bind(r.Context(), row, position); err != nil {
		respondWithAppError(w, mapListError(err))
		return
	}

	respondWithJSON(w, http.StatusOK, txlist.BoundRow{
		Position: row.Position,
		Hash:     row.Hash,
		State:    row.Visual.State(),
		Visual:   row.Visual,
	})
}

// Click handles POST /api/v1/feed/rows/{position}/click
func (h *FeedHandler) Click(w http.ResponseWriter, r *http.Request) {
	adapter, ok := h.adapter(w, r)
	if !ok {
		return
	}
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	tx, err := adapter.Click(r.Context(), position)
	if err != nil {
		mapped := mapListError(err)
		if appErr := apperrors.GetAppError(mapped); appErr != nil && appErr.Code == apperrors.ErrCodeUnavailable {
			h.logger.WithContext(r.Context()).WithError(err).Error("click event not delivered", "position", position)
		}
		respondWithAppError(w, mapped)
		return
	}

	respondWithJSON(w, http.StatusOK, ClickResponse{Transaction: tx})
}

func (h *FeedHandler) adapter(w http.ResponseWriter, r *http.Request) (*txlist.Adapter, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithAppError(w, apperrors.Unauthorized("unauthorized"))
		return nil, false
	}
	return h.adapters.Get(userID), true
}

func positionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		respondWithAppError(w, apperrors.Validation("position must be an integer"))
		return 0, false
	}
	return position, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// mapListError converts adapter errors to AppErrors
func mapListError(err error) error {
	switch {
	case errors.Is(err, txlist.ErrPositionOutOfRange):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "row not found")
	case errors.Is(err, txlist.ErrNoPosition),
		errors.Is(err, txlist.ErrInvalidRange),
		errors.Is(err, txlist.ErrUnknownViewType):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.Unavailable("request canceled", err)
	default:
		return apperrors.Unavailable("click event sink unavailable", err)
	}
}
