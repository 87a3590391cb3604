package handler

import (
	"errors"
	"net/http"
	"net/url"
	"service-desk/common"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/service"
	"service-desk/validation"
	"strings"
)

// Context is the JSON page context returned in place of a rendered template.
type Context map[string]interface{}

// Responder writes page contexts, redirects and flash messages.
type Responder struct {
	sessions *service.SessionService
	basePath string
}

func NewResponder(sessions *service.SessionService, basePath string) *Responder {
	return &Responder{sessions: sessions, basePath: strings.TrimSuffix(basePath, "/")}
}

// URL prefixes an application path with the configured base path.
func (p *Responder) URL(path string) string {
	return p.basePath + path
}

func (p *Responder) Flash(r *http.Request, level, message string) {
	if err := p.sessions.AddFlash(r.Context(), VisitorFrom(r.Context()), level, message); err != nil {
		logger.Log.WithError(err).Warn("Failed to queue flash message")
	}
}

func (p *Responder) messages(r *http.Request) []model.Flash {
	flashes, err := p.sessions.PopFlashes(r.Context(), VisitorFrom(r.Context()))
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to read flash messages")
	}
	return flashes
}

// Render writes data with the visitor's pending messages and current user.
func (p *Responder) Render(w http.ResponseWriter, r *http.Request, status int, data Context) *common.AppError {
	if data == nil {
		data = Context{}
	}
	data["messages"] = p.messages(r)
	data["user"] = ActorFrom(r.Context())
	common.WriteJSON(w, status, data)
	return nil
}

// Redirect sends a 303 to an application path.
func (p *Responder) Redirect(w http.ResponseWriter, r *http.Request, path string) *common.AppError {
	http.Redirect(w, r, p.URL(path), http.StatusSeeOther)
	return nil
}

// Success flashes message and redirects to path.
func (p *Responder) Success(w http.ResponseWriter, r *http.Request, path, message string) *common.AppError {
	p.Flash(r, model.FlashSuccess, message)
	return p.Redirect(w, r, path)
}

// LoginRedirect sends anonymous visitors to the login page, remembering
// where they were going.
func (p *Responder) LoginRedirect(w http.ResponseWriter, r *http.Request) *common.AppError {
	next := url.QueryEscape(p.URL(r.URL.Path))
	http.Redirect(w, r, p.URL("/accounts/login/")+"?next="+next, http.StatusFound)
	return nil
}

// Invalid re-shows the submitted input with its field errors.
func (p *Responder) Invalid(w http.ResponseWriter, r *http.Request, errs validation.Errors, input interface{}, extra Context) *common.AppError {
	data := Context{"errors": errs, "input": input}
	for k, v := range extra {
		data[k] = v
	}
	return p.Render(w, r, http.StatusBadRequest, data)
}

// Fail maps a service error onto the matching response.
func (p *Responder) Fail(w http.ResponseWriter, r *http.Request, err error, input interface{}, extra Context) *common.AppError {
	var errs validation.Errors
	switch {
	case errors.As(err, &errs):
		return p.Invalid(w, r, errs, input, extra)
	case errors.Is(err, service.ErrLoginRequired):
		return p.LoginRedirect(w, r)
	case errors.Is(err, service.ErrPermissionDenied):
		p.Flash(r, model.FlashError, "You do not have permission to perform this action.")
		http.Redirect(w, r, p.URL("/requests/my/"), http.StatusFound)
		return nil
	case errors.Is(err, service.ErrNotFound):
		return common.NewAppError(http.StatusNotFound, "Not found", err)
	default:
		return common.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
}

// LoginRequired redirects anonymous visitors before next runs.
func (p *Responder) LoginRequired(next func(http.ResponseWriter, *http.Request) *common.AppError) func(http.ResponseWriter, *http.Request) *common.AppError {
	return func(w http.ResponseWriter, r *http.Request) *common.AppError {
		if ActorFrom(r.Context()) == nil {
			return p.LoginRedirect(w, r)
		}
		return next(w, r)
	}
}

// safeNext accepts only local absolute paths for post-login redirects.
func safeNext(next string) bool {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Host == "" && u.Scheme == ""
}
