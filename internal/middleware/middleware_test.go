package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/models"
	"csemotors/web/internal/security"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingResponder struct {
	failures  []string
	redirects []string
	notices   []string
}

func (r *recordingResponder) Fail(c *gin.Context, status int, message string) {
	r.failures = append(r.failures, message)
	c.AbortWithStatus(status)
}

func (r *recordingResponder) Redirect(c *gin.Context, location string, notice string) {
	r.redirects = append(r.redirects, location)
	r.notices = append(r.notices, notice)
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}

type fakeRevocations struct {
	revoked bool
	err     error
}

func (f fakeRevocations) IsRevoked(context.Context, *security.IdentityClaims) (bool, error) {
	return f.revoked, f.err
}

var cookieOpts = CookieOptions{Name: "jwt"}

func tokenFor(t *testing.T, accountType models.AccountType, ttl time.Duration) string {
	t.Helper()
	token, _, err := security.GenerateIdentityToken(testSecret, models.Account{ID: 3, FirstName: "Jane", Type: accountType}, ttl)
	require.NoError(t, err)
	return token
}

func identityRouter(responder Responder, revocations RevocationChecker, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Identify(testSecret, cookieOpts, revocations, zerolog.Nop(), responder))
	handlers := append(extra, func(c *gin.Context) {
		if id := Identity(c); id != nil {
			c.String(http.StatusOK, "hello %s", id.FirstName)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdentifyAnonymous(t *testing.T) {
	responder := &recordingResponder{}
	rec := get(identityRouter(responder, fakeRevocations{}), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, responder.redirects)
}

func TestIdentifyValidCookie(t *testing.T) {
	responder := &recordingResponder{}
	cookie := &http.Cookie{Name: "jwt", Value: tokenFor(t, models.AccountTypeClient, time.Hour)}

	rec := get(identityRouter(responder, fakeRevocations{}), "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello Jane", rec.Body.String())
}

func TestIdentifyRejectsBadCookies(t *testing.T) {
	cases := map[string]struct {
		token       string
		revocations fakeRevocations
	}{
		"garbage": {token: "not-a-token"},
		"expired": {token: tokenFor(t, models.AccountTypeClient, -time.Minute)},
		"revoked": {token: tokenFor(t, models.AccountTypeClient, time.Hour), revocations: fakeRevocations{revoked: true}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			responder := &recordingResponder{}
			rec := get(identityRouter(responder, tc.revocations), "/", &http.Cookie{Name: "jwt", Value: tc.token})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, []string{"/account/login"}, responder.redirects)
			assert.Equal(t, []string{"Please log in."}, responder.notices)
			assert.Contains(t, rec.Header().Get("Set-Cookie"), "jwt=;")
		})
	}
}

func TestIdentifyFailsOpenOnRevocationError(t *testing.T) {
	responder := &recordingResponder{}
	cookie := &http.Cookie{Name: "jwt", Value: tokenFor(t, models.AccountTypeClient, time.Hour)}

	rec := get(identityRouter(responder, fakeRevocations{err: errors.New("redis down")}), "/", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello Jane", rec.Body.String())
}

func TestRequireLogin(t *testing.T) {
	responder := &recordingResponder{}
	r := identityRouter(responder, fakeRevocations{}, RequireLogin(responder))

	rec := get(r, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/account/login", rec.Header().Get("Location"))

	rec = get(r, "/", &http.Cookie{Name: "jwt", Value: tokenFor(t, models.AccountTypeClient, time.Hour)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	responder := &recordingResponder{}
	r := identityRouter(responder, fakeRevocations{}, RequireRoles(responder, models.AccountTypeEmployee, models.AccountTypeAdmin))

	rec := get(r, "/", &http.Cookie{Name: "jwt", Value: tokenFor(t, models.AccountTypeClient, time.Hour)})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/account/", rec.Header().Get("Location"))
	assert.Equal(t, []string{"You do not have permission to access that page."}, responder.notices)

	for _, accountType := range []models.AccountType{models.AccountTypeEmployee, models.AccountTypeAdmin} {
		rec = get(r, "/", &http.Cookie{Name: "jwt", Value: tokenFor(t, accountType, time.Hour)})
		assert.Equal(t, http.StatusOK, rec.Code, accountType)
	}

	rec = get(r, "/")
	assert.Equal(t, "/account/login", rec.Header().Get("Location"))
}

func TestSessionAssignsAndKeepsID(t *testing.T) {
	r := gin.New()
	r.Use(Session(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	rec := get(r, "/")
	sid := rec.Body.String()
	require.NotEmpty(t, sid)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "sid="+sid)

	rec = get(r, "/", &http.Cookie{Name: "sid", Value: sid})
	assert.Equal(t, sid, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Set-Cookie"))

	rec = get(r, "/", &http.Cookie{Name: "sid", Value: "forged"})
	assert.NotEqual(t, "forged", rec.Body.String())
}

func csrfRouter(enabled bool, responder Responder) *gin.Engine {
	r := gin.New()
	r.Use(Session(false), CSRF(enabled, testSecret, responder))
	r.GET("/form", func(c *gin.Context) { c.String(http.StatusOK, CSRFToken(c)) })
	r.POST("/form", func(c *gin.Context) { c.String(http.StatusOK, "accepted") })
	return r
}

func postForm(r http.Handler, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCSRFRequiresSessionToken(t *testing.T) {
	responder := &recordingResponder{}
	r := csrfRouter(true, responder)

	first := get(r, "/form")
	token := first.Body.String()
	require.NotEmpty(t, token)
	sid := first.Result().Cookies()[0]

	rec := postForm(r, url.Values{"csrf_token": {token}}, sid)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postForm(r, url.Values{}, sid)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postForm(r, url.Values{"csrf_token": {token}})
	assert.Equal(t, http.StatusForbidden, rec.Code, "token is bound to the session")
	assert.Len(t, responder.failures, 2)
}

func TestCSRFDisabled(t *testing.T) {
	r := csrfRouter(false, &recordingResponder{})

	assert.Empty(t, get(r, "/form").Body.String())
	assert.Equal(t, http.StatusOK, postForm(r, url.Values{}).Code)
}

func TestRequestIDAndHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	rec := get(r, "/")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, rec.Header().Get("X-Request-Id"), rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	const upstream = "0b5c8f8e-3f0a-4c1e-9a57-2f6d1c3b7e11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", upstream)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, upstream, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc\ninjected")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotContains(t, rec.Body.String(), "injected")
}

func TestRecoveryUsesResponder(t *testing.T) {
	responder := &recordingResponder{}
	r := gin.New()
	r.Use(Recovery(zerolog.Nop(), responder))
	r.GET("/", func(*gin.Context) { panic("boom") })

	rec := get(r, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{crashMessage}, responder.failures)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://a.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://a.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
