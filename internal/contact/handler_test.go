package contact

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aneeqm/bloghub/internal/telemetry/metrics"
)

type mailerMock struct {
	SentMessages []string
	ReturnErr    error
	mutex        sync.Mutex
}

func (m *mailerMock) SendContactMessage(name, email, phone, message string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.ReturnErr != nil {
		return m.ReturnErr
	}
	m.SentMessages = append(m.SentMessages, name+"|"+email+"|"+phone+"|"+message)
	return nil
}

func TestNewHandler_routes(t *testing.T) {
	r := mux.NewRouter()
	handler := NewHandler(&mailerMock{}, metrics.NewTestManager())
	handler.SetupRoutes(r)

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"contact-post": {
			name:   "contact-send",
			path:   "/contact",
			method: "POST",
		},
		"contact-get": {
			name:   "contact-get",
			path:   "/contact",
			method: "GET",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := r.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func handlerTestSetup(t *testing.T) (*mailerMock, *mux.Router) {
	t.Helper()

	mailer := &mailerMock{}
	handler := NewHandler(mailer, metrics.NewTestManager())
	r := mux.NewRouter()
	handler.SetupRoutes(r)

	return mailer, r
}

func TestHandler_sendMessage(t *testing.T) {
	mailer, r := handlerTestSetup(t)

	form := url.Values{}
	form.Add("name", "Visitor")
	form.Add("email", "visitor@example.com")
	form.Add("phone", "0123456")
	form.Add("message", "hello there")
	req, err := http.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sent", rr.Body.String())

	require.Len(t, mailer.SentMessages, 1)
	assert.Equal(t, "Visitor|visitor@example.com|0123456|hello there", mailer.SentMessages[0])
}

func TestHandler_sendMessage_json(t *testing.T) {
	mailer, r := handlerTestSetup(t)

	reqBody := `{"name":"Visitor","email":"visitor@example.com","phone":"","message":"hi"}`
	req, err := http.NewRequest("POST", "/contact", strings.NewReader(reqBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, mailer.SentMessages, 1)
}

func TestHandler_sendMessage_missingFields(t *testing.T) {
	mailer, r := handlerTestSetup(t)

	form := url.Values{}
	form.Add("name", "Visitor")
	// no email, no message
	req, err := http.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, mailer.SentMessages)
}

func TestHandler_sendMessage_mailerError(t *testing.T) {
	mailer, r := handlerTestSetup(t)
	mailer.ReturnErr = errors.New("smtp down")

	form := url.Values{}
	form.Add("name", "Visitor")
	form.Add("email", "visitor@example.com")
	form.Add("message", "hello")
	req, err := http.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandler_get(t *testing.T) {
	_, r := handlerTestSetup(t)

	req, err := http.NewRequest("GET", "/contact", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
