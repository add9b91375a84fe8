package http

import (
	"errors"
	"net/http"

	"emojiorder/internal/adapters/out/payment"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/jobs"
	"emojiorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain errors to HTTP status codes. Anything unrecognised is
// an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotResolved),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, jobs.ErrAlreadyWatching):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error, message string) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), message,
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		return ctx.JSON(code, Error{Code: code, Message: message})
	}
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
