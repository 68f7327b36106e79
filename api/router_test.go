package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/auth"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/Domenick1991/travelbooking/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	tokens := token.New("router-secret", time.Hour)
	router := NewRouter(config.HTTPConfig{}, Services{
		Catalog:  catalog.NewCatalogService(store.TravelOptions(), nil),
		Bookings: booking.NewBookingService(store.Bookings(), store.TravelOptions()),
		Auth:     auth.NewAuthService(store.Users(), tokens, auth.WithBcryptCost(bcrypt.MinCost)),
		Tokens:   tokens,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, accessToken string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	form := url.Values{"username": {username}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tokenResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (s *testServer) createOption(accessToken, title string, price string, seats int, departure time.Time) int64 {
	s.t.Helper()
	w := s.do(http.MethodPost, "/travel-options", accessToken, map[string]interface{}{
		"title":           title,
		"type":            "Flight",
		"source":          "Mumbai",
		"destination":     "Delhi",
		"departure_time":  departure,
		"arrival_time":    departure.Add(2 * time.Hour),
		"price_per_seat":  price,
		"available_seats": seats,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID int64 `json:"option_id"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_BookingFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.login("alice")
	bob := s.login("bob")

	dep := time.Date(2025, 1, 1, 23, 30, 0, 0, time.UTC)
	optionID := s.createOption(alice, "AI-101", "750", 2, dep)

	w := s.do(http.MethodPost, "/bookings", alice, map[string]interface{}{"option_id": optionID, "num_seats": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not enough seats available. Only 2 seats left.", decodeError(t, w))

	w = s.do(http.MethodPost, "/bookings", alice, map[string]interface{}{"option_id": optionID, "num_seats": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/bookings", alice, map[string]interface{}{"option_id": 999, "num_seats": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/bookings", alice, map[string]interface{}{"option_id": optionID, "num_seats": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID         int64   `json:"booking_id"`
		TotalPrice float64 `json:"total_price"`
		Status     string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1500.0, created.TotalPrice)
	assert.Equal(t, "Confirmed", created.Status)

	// Sold out: listed without filters, hidden from search.
	assert.Len(t, decodeList(t, s.do(http.MethodGet, "/travel-options", "", nil)), 1)
	assert.Empty(t, decodeList(t, s.do(http.MethodGet, "/travel-options?source=mumbai", "", nil)))

	bookingPath := fmt.Sprintf("/bookings/%d", created.ID)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, bookingPath, bob, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, bookingPath+"/cancel", bob, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, bookingPath, alice, nil).Code)

	w = s.do(http.MethodPut, bookingPath+"/cancel", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Cancelled"`)

	w = s.do(http.MethodPut, bookingPath+"/cancel", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Booking not found or cannot be cancelled", decodeError(t, w))

	w = s.do(http.MethodGet, fmt.Sprintf("/travel-options/%d", optionID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available_seats":2`)

	assert.Len(t, decodeList(t, s.do(http.MethodGet, "/bookings", alice, nil)), 1)
	assert.Empty(t, decodeList(t, s.do(http.MethodGet, "/bookings", bob, nil)))
}

func TestRouter_SearchFilters(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin")

	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.createOption(admin, "Budget", "400", 5, day.Add(6*time.Hour))
	s.createOption(admin, "Standard", "750", 5, day.Add(23*time.Hour+59*time.Minute))
	s.createOption(admin, "Premium", "1200", 5, day.Add(24*time.Hour))

	priced := decodeList(t, s.do(http.MethodGet, "/travel-options?min_price=500&max_price=1000", "", nil))
	require.Len(t, priced, 1)
	assert.Equal(t, "Standard", priced[0]["title"])

	dated := decodeList(t, s.do(http.MethodGet, "/travel-options?date=2025-01-01", "", nil))
	assert.Len(t, dated, 2)

	ignored := decodeList(t, s.do(http.MethodGet, "/travel-options?date=tomorrow", "", nil))
	assert.Len(t, ignored, 3)

	paged := decodeList(t, s.do(http.MethodGet, "/travel-options?skip=1&limit=1", "", nil))
	require.Len(t, paged, 1)
	assert.Equal(t, "Standard", paged[0]["title"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/travel-options?min_price=abc", "", nil).Code)
}

func TestRouter_AuthRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/bookings", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/travel-options", "", map[string]string{}).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/users/me", "bad-token", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api", "", nil).Code)

	accessToken := s.login("carol")
	w := s.do(http.MethodGet, "/users/me", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"carol"`)
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(nil)
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)

	wildcard := corsConfig([]string{"*"})
	assert.True(t, wildcard.AllowAllOrigins)

	strict := corsConfig([]string{"https://travel.example.com", " "})
	assert.False(t, strict.AllowAllOrigins)
	assert.Equal(t, []string{"https://travel.example.com"}, strict.AllowOrigins)
	assert.True(t, strict.AllowCredentials)
}
