package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// domainStatus maps the domain sentinel errors to an HTTP status; 0 when err is none of them.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, academy.ErrNotFound),
		errors.Is(err, user.ErrRegistrationNotFound):
		return http.StatusNotFound
	case errors.Is(err, academy.ErrNotBatchTrainer),
		errors.Is(err, academy.ErrNotEnrolled),
		errors.Is(err, user.ErrCannotDeleteSelf):
		return http.StatusForbidden
	case errors.Is(err, academy.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, user.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	}
	return 0
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		if fldErrs := core.TranslateErrors(err, translator); fldErrs != nil {
			code = http.StatusBadRequest
			message = fldErrs
		} else if status := domainStatus(err); status != 0 {
			code = status
			message = err.Error()
		} else {
			switch origErr := errors.Cause(err).(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case *core.ValidationError:
				code = http.StatusBadRequest
				message = origErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				usr, _ := getContextUser(ctx)
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
