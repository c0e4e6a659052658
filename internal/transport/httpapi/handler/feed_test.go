package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/kislikjeka/txfeed/internal/module/txlist"
	"github.com/kislikjeka/txfeed/internal/platform/address"
	"github.com/kislikjeka/txfeed/internal/platform/currency"
	"github.com/kislikjeka/txfeed/internal/platform/i18n"
	"github.com/kislikjeka/txfeed/internal/platform/preference"
	"github.com/kislikjeka/txfeed/internal/platform/txrow"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/handler"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

// MockEventSink is a mock implementation of txlist.EventSink
type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Publish(ctx context.Context, event txlist.ItemClicked) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type feedFixture struct {
	router http.Handler
	prefs  *preference.Service
	sink   *MockEventSink
	userID uuid.UUID
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()

	prefs := preference.NewService(preference.NewMemoryRepository(), "USD")
	sink := new(MockEventSink)
	presenter := txrow.NewPresenter(txrow.Deps{
		Currency:  currency.NewFormatter(language.English),
		Addresses: address.NewDecorator(),
		Dates:     i18n.NewDateFormatter(language.English, time.UTC, func() time.Time { return fixedNow }),
		Templates: i18n.NewCatalog(language.English),
		Now:       func() time.Time { return fixedNow },
	})
	registry := txlist.NewRegistry(func(userID uuid.UUID) *txlist.Adapter {
		return txlist.NewAdapter(txlist.Config{
			UserID:          userID,
			Presenter:       presenter,
			Preferences:     prefs.Reader(userID),
			DefaultFiatCode: "USD",
			Sink:            sink,
			Now:             func() time.Time { return fixedNow },
		})
	})

	h := handler.NewFeedHandler(registry, logger.Discard())
	userID := uuid.New()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Put("/feed/items", h.SetItems)
	r.Get("/feed/count", h.GetCount)
	r.Get("/feed/rows", h.GetRows)
	r.Get("/feed/rows/{position}", h.GetRow)
	r.Post("/feed/rows/{position}/click", h.Click)

	return &feedFixture{router: r, prefs: prefs, sink: sink, userID: userID}
}

func (f *feedFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const itemsBody = `{"items":[
	{"hash":"0x01","currency_code":"BTC","amount":"0.5","amount_in_fiat":"31000.5","fee":"0","received":true,"valid":true,"confirmations":10,"from_address":"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2","timestamp":1704447000},
	{"hash":"0x02","currency_code":"ETH","amount":"1.25","fee":"0","received":false,"valid":true,"pending":true,"confirmations":2,"to_address":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed","timestamp":1704447000},
	{"hash":"0x03","currency_code":"ETH","amount":"2","fee":"0","received":false,"valid":false,"confirmations":0,"to_address":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed","timestamp":1704447000}
]}`

func TestFeedHandler_SetItemsAndCount(t *testing.T) {
	f := newFeedFixture(t)

	rec := f.do(t, http.MethodPut, "/feed/items", itemsBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count handler.CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 3, count.Count)

	rec = f.do(t, http.MethodGet, "/feed/count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	assert.Equal(t, 3, count.Count)
}

func TestFeedHandler_SetItemsRejectsBadJSON(t *testing.T) {
	f := newFeedFixture(t)

	rec := f.do(t, http.MethodPut, "/feed/items", `{"items":[{"amount":"not-a-number"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/feed/items", `{"unexpected":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeedHandler_GetRows(t *testing.T) {
	f := newFeedFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/feed/items", itemsBody).Code)

	rec := f.do(t, http.MethodGet, "/feed/rows", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var page handler.RowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Rows, 3)
	assert.Equal(t, 50, page.Limit)

	settled := page.Rows[0]
	assert.Equal(t, txrow.StateSettled, settled.State)
	assert.Equal(t, "$31,000.50", settled.Visual.AmountText)
	assert.Equal(t, txrow.ColorReceived, settled.Visual.AmountColor)
	assert.Equal(t, "received via 1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", settled.Visual.DetailText)
	assert.Equal(t, "Jan 5", settled.Visual.DateText)

	pending := page.Rows[1]
	assert.Equal(t, txrow.StatePending, pending.State)
	assert.Equal(t, 40, pending.Visual.ProgressPercent)
	assert.Equal(t, txrow.MissingAmountText, pending.Visual.AmountText)
	assert.Equal(t, "sending to 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", pending.Visual.DetailText)

	failed := page.Rows[2]
	assert.Equal(t, txrow.StateFailed, failed.State)
	assert.True(t, failed.Visual.ShowFailedBanner)

	rec = f.do(t, http.MethodGet, "/feed/rows?offset=1&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "0x02", page.Rows[0].Hash)
}

func TestFeedHandler_GetRowsValidation(t *testing.T) {
	f := newFeedFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows?offset=-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows?limit=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows?limit=501", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows?offset=abc", "").Code)
}

func TestFeedHandler_GetRowFollowsPreferences(t *testing.T) {
	f := newFeedFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/feed/items", itemsBody).Code)

	var row txlist.BoundRow
	rec := f.do(t, http.MethodGet, "/feed/rows/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "$31,000.50", row.Visual.AmountText)

	_, err := f.prefs.Update(context.Background(), &preference.Preferences{UserID: f.userID, FiatCode: "EUR", CryptoPreferred: true})
	require.NoError(t, err)

	rec = f.do(t, http.MethodGet, "/feed/rows/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, "0.5 BTC", row.Visual.AmountText)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/feed/rows/3", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows/-1", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/feed/rows/first", "").Code)
}

func TestFeedHandler_Click(t *testing.T) {
	f := newFeedFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/feed/items", itemsBody).Code)

	f.sink.On("Publish", mock.Anything, mock.MatchedBy(func(e txlist.ItemClicked) bool {
		return e.Position == 1 && e.Transaction.Hash == "0x02" && e.UserID == f.userID
	})).Return(nil).Once()

	rec := f.do(t, http.MethodPost, "/feed/rows/1/click", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.ClickResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0x02", resp.Transaction.Hash)
	f.sink.AssertExpectations(t)
}

func TestFeedHandler_ClickErrors(t *testing.T) {
	f := newFeedFixture(t)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/feed/items", itemsBody).Code)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/feed/rows/9/click", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/feed/rows/-1/click", "").Code)

	f.sink.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	rec := f.do(t, http.MethodPost, "/feed/rows/0/click", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	f.sink.AssertExpectations(t)
}

func TestFeedHandler_Unauthenticated(t *testing.T) {
	h := handler.NewFeedHandler(txlist.NewRegistry(func(uuid.UUID) *txlist.Adapter { return nil }), logger.Discard())

	rec := httptest.NewRecorder()
	h.GetCount(rec, httptest.NewRequest(http.MethodGet, "/feed/count", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
