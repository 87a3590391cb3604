package router

import (
	"io/fs"
	"net/http"
	"service-desk/common"
	"service-desk/docs"
	"service-desk/handler"
	"strings"

	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Deps bundles what the router mounts.
type Deps struct {
	Accounts   *handler.AccountHandler
	Requests   *handler.RequestHandler
	Categories *handler.CategoryHandler
	Sessions   *handler.SessionMiddleware
	Responder  *handler.Responder
	Media      afero.Fs
	MediaURL   string
	BasePath   string
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	page := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
		return handler.ErrorHandlingMiddleware(fn)
	}
	private := func(fn func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
		return handler.ErrorHandlingMiddleware(d.Responder.LoginRequired(fn))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)

	basePath := strings.TrimSuffix(d.BasePath, "/")
	docs.SwaggerInfo.BasePath = basePath + "/"
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL(basePath+"/swagger/doc.json")))

	if d.Media != nil {
		prefix := "/" + strings.Trim(d.MediaURL, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(filesOnly{afero.NewHttpFs(d.Media)})))
	}

	mux.Handle("GET /{$}", page(d.Requests.Index))

	mux.Handle("GET /accounts/login/{$}", page(d.Accounts.LoginForm))
	mux.Handle("POST /accounts/login/{$}", page(d.Accounts.Login))
	mux.Handle("GET /accounts/logout/{$}", page(d.Accounts.Logout))
	mux.Handle("POST /accounts/logout/{$}", page(d.Accounts.Logout))
	mux.Handle("GET /accounts/profile/{$}", private(d.Accounts.Profile))
	mux.Handle("GET /accounts/profile/change/{$}", private(d.Accounts.ProfileForm))
	mux.Handle("POST /accounts/profile/change/{$}", private(d.Accounts.ChangeProfile))
	mux.Handle("GET /accounts/register/{$}", page(d.Accounts.RegisterForm))
	mux.Handle("POST /accounts/register/{$}", page(d.Accounts.Register))

	mux.Handle("GET /requests/create/{$}", private(d.Requests.CreateForm))
	mux.Handle("POST /requests/create/{$}", private(d.Requests.Create))
	mux.Handle("GET /requests/my/{$}", private(d.Requests.MyRequests))
	mux.Handle("GET /requests/{id}/delete/{$}", private(d.Requests.DeleteConfirm))
	mux.Handle("POST /requests/{id}/delete/{$}", private(d.Requests.Delete))
	mux.Handle("GET /requests/{id}/change-status/{$}", private(d.Requests.ChangeStatusForm))
	mux.Handle("POST /requests/{id}/change-status/{$}", private(d.Requests.ChangeStatus))

	mux.Handle("GET /categories/{$}", private(d.Categories.List))
	mux.Handle("GET /categories/create/{$}", private(d.Categories.CreateForm))
	mux.Handle("POST /categories/create/{$}", private(d.Categories.Create))
	mux.Handle("GET /categories/{id}/edit/{$}", private(d.Categories.EditForm))
	mux.Handle("POST /categories/{id}/edit/{$}", private(d.Categories.Edit))
	mux.Handle("GET /categories/{id}/delete/{$}", private(d.Categories.DeleteConfirm))
	mux.Handle("POST /categories/{id}/delete/{$}", private(d.Categories.Delete))

	var h http.Handler = mux
	if basePath != "" {
		h = http.StripPrefix(basePath, h)
	}
	return handler.LoggingMiddleware(d.Sessions.Handle(h))
}

// filesOnly serves regular files and reports directories as missing, so the
// media mount never renders a listing.
type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
