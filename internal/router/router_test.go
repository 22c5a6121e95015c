package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/consultwise/booking-api/internal/config"
	"github.com/consultwise/booking-api/internal/errs"
	"github.com/consultwise/booking-api/internal/handler"
	"github.com/consultwise/booking-api/internal/mail"
	"github.com/consultwise/booking-api/internal/middleware"
	"github.com/consultwise/booking-api/internal/ratelimit"
	"github.com/consultwise/booking-api/internal/server"
	"github.com/consultwise/booking-api/internal/service"
)

const (
	testAdminAddress  = "admin@consultwise.test"
	testAllowedOrigin = "https://consultwise.test"
)

// MockSender is a mock implementation of the mail.Sender interface.
type MockSender struct {
	mock.Mock

	mu       sync.Mutex
	messages []mail.Message
}

func (m *MockSender) Send(ctx context.Context, msg mail.Message) (string, error) {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockSender) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

func newTestRouter(sender mail.Sender) *echo.Echo {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "8080",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{testAllowedOrigin},
			BodyLimit:          "10K",
		},
		Mail: config.MailConfig{
			Provider:     "resend",
			FromName:     "Consultwise",
			FromAddress:  "bookings@consultwise.test",
			AdminAddress: testAdminAddress,
			SendTimeout:  5,
		},
		RateLimit: config.RateLimitConfig{Requests: 5, WindowMinutes: 15, Store: "memory"},
	}

	logger := zerolog.Nop()
	srv := &server.Server{
		Config:    cfg,
		Logger:    &logger,
		Mailer:    sender,
		RateStore: ratelimit.NewMemoryStore(cfg.RateLimit.Requests, 15*time.Minute),
	}

	middlewares := middleware.NewMiddlewares(srv)
	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)

	return New(middlewares, handlers)
}

func postBooking(e *echo.Echo, body, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if clientIP != "" {
		req.Header.Set("X-Real-IP", clientIP)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const validPayload = `{
	"fullName": "Jane Doe",
	"email": "jane@x.com",
	"serviceType": "Consult",
	"preferredDate": "2025-01-10",
	"preferredTime": "10:00"
}`

func TestCreateBooking_Success(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == "jane@x.com"
	})).Return("re_client_123", nil).Once()
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == testAdminAddress && msg.ReplyTo == "jane@x.com"
	})).Return("re_admin_456", nil).Once()

	e := newTestRouter(sender)
	rec := postBooking(e, validPayload, "203.0.113.10")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "re_client_123", resp.ID)

	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestCreateBooking_MissingRequiredFields(t *testing.T) {
	required := []string{"fullName", "email", "serviceType", "preferredDate", "preferredTime"}

	for _, field := range required {
		t.Run(field, func(t *testing.T) {
			payload := map[string]string{
				"fullName":      "Jane Doe",
				"email":         "jane@x.com",
				"serviceType":   "Consult",
				"preferredDate": "2025-01-10",
				"preferredTime": "10:00",
			}
			delete(payload, field)
			body, err := json.Marshal(payload)
			require.NoError(t, err)

			sender := new(MockSender)
			e := newTestRouter(sender)
			rec := postBooking(e, string(body), "203.0.113.11")

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var httpErr errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
			assert.NotEmpty(t, httpErr.Message)
			require.NotEmpty(t, httpErr.Details)
			assert.Equal(t, field, httpErr.Details[0].Field)

			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_WhitespaceOnlyRequiredField(t *testing.T) {
	sender := new(MockSender)
	e := newTestRouter(sender)

	payload := strings.Replace(validPayload, `"Jane Doe"`, `"   "`, 1)
	rec := postBooking(e, payload, "203.0.113.12")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCreateBooking_InvalidEmail(t *testing.T) {
	for _, email := range []string{"janex.com", "jane.at.x.com", "plainstring"} {
		t.Run(email, func(t *testing.T) {
			sender := new(MockSender)
			e := newTestRouter(sender)

			payload := strings.Replace(validPayload, `"jane@x.com"`, fmt.Sprintf("%q", email), 1)
			rec := postBooking(e, payload, "203.0.113.13")

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var httpErr errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
			require.NotEmpty(t, httpErr.Details)
			assert.Equal(t, "email", httpErr.Details[0].Field)

			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking_EscapesHTMLInput(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("re_1", nil)

	e := newTestRouter(sender)

	payload := strings.Replace(validPayload, `"Jane Doe"`, `"<script>alert(1)</script>"`, 1)
	rec := postBooking(e, payload, "203.0.113.14")
	require.Equal(t, http.StatusOK, rec.Code)

	msgs := sender.Messages()
	require.Len(t, msgs, 2)
	for _, msg := range msgs {
		assert.NotContains(t, msg.HTML, "<script>")
		if strings.Contains(msg.HTML, "alert") {
			assert.Contains(t, msg.HTML, "&lt;script&gt;")
		}
	}
}

func TestCreateBooking_DispatchFailure(t *testing.T) {
	transportErr := errors.New("resend: 401 invalid api key for mail.internal")

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("", transportErr)

	e := newTestRouter(sender)
	rec := postBooking(e, validPayload, "203.0.113.15")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
	assert.NotContains(t, rec.Body.String(), "invalid api key")
	assert.NotContains(t, rec.Body.String(), "mail.internal")
}

func TestCreateBooking_PartialDispatchFailureIsFailure(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == "jane@x.com"
	})).Return("re_client_123", nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mail.Message) bool {
		return len(msg.To) == 1 && msg.To[0] == testAdminAddress
	})).Return("", errors.New("smtp: connection refused"))

	e := newTestRouter(sender)
	rec := postBooking(e, validPayload, "203.0.113.16")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestCreateBooking_RateLimited(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("re_1", nil)

	e := newTestRouter(sender)

	for i := 0; i < 5; i++ {
		rec := postBooking(e, validPayload, "203.0.113.20")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := postBooking(e, validPayload, "203.0.113.20")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	assert.NotEmpty(t, httpErr.Message)
	assert.Greater(t, httpErr.RetryAfter, 0)

	// The denied request triggered no dispatch.
	sender.AssertNumberOfCalls(t, "Send", 10)

	// A different client identity in the same window is unaffected.
	rec = postBooking(e, validPayload, "203.0.113.21")
	assert.Equal(t, http.StatusOK, rec.Code)
	sender.AssertNumberOfCalls(t, "Send", 12)
}

func TestCreateBooking_BodyTooLarge(t *testing.T) {
	sender := new(MockSender)
	e := newTestRouter(sender)

	oversized := fmt.Sprintf(`{"fullName": %q, "email": "jane@x.com"}`, strings.Repeat("a", 11*1024))
	rec := postBooking(e, oversized, "203.0.113.22")

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCreateBooking_OriginGuard(t *testing.T) {
	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("re_1", nil)

	e := newTestRouter(sender)

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(validPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	req = httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(validPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, testAllowedOrigin)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testAllowedOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestHealthEndpoint(t *testing.T) {
	sender := new(MockSender)
	e := newTestRouter(sender)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Environment)
	assert.Equal(t, "8080", resp.Port)
	assert.WithinDuration(t, time.Now().UTC(), resp.Timestamp, time.Minute)
}

func TestUnknownRoute(t *testing.T) {
	sender := new(MockSender)
	e := newTestRouter(sender)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}
