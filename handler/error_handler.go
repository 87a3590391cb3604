package handler

import (
	"fmt"
	"net/http"
	"service-desk/common"
	"service-desk/logger"
)

// ErrorHandlingMiddleware adapts a handler that returns *common.AppError and
// turns panics into a 500.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.WithField("http.req.id", RequestIDFrom(r.Context())).
					WithField("panic", fmt.Sprint(rec)).Error("Recovered from panic")
				common.NewAppError(http.StatusInternalServerError, "Internal server error", nil).Send(w)
			}
		}()
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
