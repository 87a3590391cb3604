package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"service-desk/common"
	"service-desk/model"
	"service-desk/repository/inmemory"
	"service-desk/service"
	"service-desk/validation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeNext(t *testing.T) {
	tests := map[string]bool{
		"":                      false,
		"/requests/my/":         true,
		"/desk/requests/my/?a=": true,
		"//evil.example.com/":   false,
		"/\\evil.example.com":   false,
		"https://evil.example":  false,
		"requests/my/":          false,
	}
	for next, want := range tests {
		assert.Equal(t, want, safeNext(next), next)
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	t.Run("app error", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			return common.NewAppError(http.StatusNotFound, "Not found", nil)
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"code":404,"message":"Not found"}`, rr.Body.String())
	})

	t.Run("panic", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			panic("boom")
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	var seenID string
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, seenID)
}

type sessionFixture struct {
	store    *inmemory.Storage
	sessions *service.SessionService
	mw       *SessionMiddleware
	resp     *Responder
}

func newSessionFixture() *sessionFixture {
	store := inmemory.NewStorage()
	cache := inmemory.NewCache()
	sessions := service.NewSessionService(cache, "test-secret", time.Hour)
	auth := service.NewAuthService(store, cache)
	return &sessionFixture{
		store:    store,
		sessions: sessions,
		mw:       NewSessionMiddleware(sessions, auth, false),
		resp:     NewResponder(sessions, ""),
	}
}

func TestSessionMiddleware(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()
	user := &model.User{Username: "ivan", Email: "ivan@example.com", IsActive: true}
	require.NoError(t, f.store.CreateUser(ctx, user))

	var actor *model.User
	var visitor string
	h := f.mw.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = ActorFrom(r.Context())
		visitor = VisitorFrom(r.Context())
	}))

	t.Run("anonymous visitor gets an id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Nil(t, actor)
		assert.NotEmpty(t, visitor)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, VisitorCookie, cookies[0].Name)
		assert.Equal(t, visitor, cookies[0].Value)
	})

	t.Run("valid auth cookie", func(t *testing.T) {
		token, _, err := f.sessions.Start(ctx, user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "v1"})
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.NotNil(t, actor)
		assert.Equal(t, user.ID, actor.ID)
		assert.Equal(t, "v1", visitor)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("garbage auth cookie is cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "v1"})
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "garbage"})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Nil(t, actor)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, AuthCookie, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestResponder_Fail(t *testing.T) {
	f := newSessionFixture()
	withVisitor := func(r *http.Request) *http.Request {
		return r.WithContext(context.WithValue(r.Context(), visitorKey, "v1"))
	}

	t.Run("validation errors", func(t *testing.T) {
		errs := validation.Errors{}
		errs.Add("title", validation.TooShort, "too short")
		rr := httptest.NewRecorder()
		appErr := f.resp.Fail(rr, withVisitor(httptest.NewRequest(http.MethodPost, "/requests/create/", nil)), errs, map[string]string{"title": "Hi"}, nil)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{
			"errors": {"title": [{"code": "too_short", "message": "too short"}]},
			"input": {"title": "Hi"},
			"messages": [],
			"user": null
		}`, rr.Body.String())
	})

	t.Run("permission denied", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withVisitor(httptest.NewRequest(http.MethodPost, "/requests/1/delete/", nil))
		appErr := f.resp.Fail(rr, req, service.ErrPermissionDenied, nil, nil)

		assert.Nil(t, appErr)
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/requests/my/", rr.Header().Get("Location"))
		flashes, err := f.sessions.PopFlashes(context.Background(), "v1")
		require.NoError(t, err)
		require.Len(t, flashes, 1)
		assert.Equal(t, model.FlashError, flashes[0].Level)
	})

	t.Run("not found and internal", func(t *testing.T) {
		req := withVisitor(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, f.resp.Fail(httptest.NewRecorder(), req, service.ErrNotFound, nil, nil).Code)
		assert.Equal(t, http.StatusInternalServerError, f.resp.Fail(httptest.NewRecorder(), req, errors.New("db down"), nil, nil).Code)
	})

	t.Run("login required", func(t *testing.T) {
		rr := httptest.NewRecorder()
		f.resp.Fail(rr, withVisitor(httptest.NewRequest(http.MethodGet, "/accounts/profile/", nil)), service.ErrLoginRequired, nil, nil)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/accounts/login/?next=%2Faccounts%2Fprofile%2F", rr.Header().Get("Location"))
	})
}
