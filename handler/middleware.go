package handler

import (
	"context"
	"errors"
	"net/http"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/service"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	visitorKey   contextKey = "visitor"
	requestIDKey contextKey = "requestID"
)

const (
	VisitorCookie = "sessionid"
	AuthCookie    = "auth_token"

	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// ActorFrom returns the signed-in user, or nil for anonymous visitors.
func ActorFrom(ctx context.Context) *model.User {
	user, _ := ctx.Value(actorKey).(*model.User)
	return user
}

// VisitorFrom returns the anonymous visitor id that flash messages are keyed by.
func VisitorFrom(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey).(string)
	return id
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// LoggingMiddleware tags every request with an id and logs one line when it completes.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		rr := &responseRecorder{w: w}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(rr, r.WithContext(ctx))

		entry := logger.Log.WithFields(logrus.Fields{
			"http.req.path":     r.URL.Path,
			"http.req.method":   r.Method,
			"http.req.id":       requestID,
			"http.resp.status":  rr.status,
			"http.resp.bytes":   rr.b,
			"http.resp.took_ms": time.Since(start).Milliseconds(),
		})
		if rr.status >= http.StatusInternalServerError {
			entry.Warn("request complete")
		} else {
			entry.Info("request complete")
		}
	})
}

// SessionMiddleware resolves the visitor and auth cookies into request context.
type SessionMiddleware struct {
	sessions *service.SessionService
	auth     *service.AuthService
	secure   bool
}

func NewSessionMiddleware(sessions *service.SessionService, auth *service.AuthService, secureCookies bool) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, auth: auth, secure: secureCookies}
}

func (m *SessionMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		visitorID := ""
		if c, err := r.Cookie(VisitorCookie); err == nil && c.Value != "" {
			visitorID = c.Value
		} else {
			visitorID = service.NewVisitorID()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookie,
				Value:    visitorID,
				Path:     "/",
				MaxAge:   visitorCookieMaxAge,
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx = context.WithValue(ctx, visitorKey, visitorID)

		if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
			user, err := m.resolve(ctx, c.Value)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, actorKey, user)
			case errors.Is(err, service.ErrInvalidSession):
				m.clearAuthCookie(w)
			default:
				logger.Log.WithError(err).Error("Failed to resolve session")
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) resolve(ctx context.Context, token string) (*model.User, error) {
	userID, err := m.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := m.auth.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, service.ErrInvalidSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, service.ErrInvalidSession
	}
	return user, nil
}

func (m *SessionMiddleware) setAuthCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionMiddleware) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
