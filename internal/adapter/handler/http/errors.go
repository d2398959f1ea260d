package http

import (
	"github.com/labstack/echo/v4"
	apperrors "github.com/wekeepgrowing/semo-billing/pkg/errors"
	"go.uber.org/zap"
)

// errorJSON writes the public message of appErr with the status its code maps to.
// code is the finer-grained value clients switch on.
func errorJSON(c echo.Context, appErr *apperrors.AppError, code string) error {
	return c.JSON(apperrors.ToHTTPStatus(appErr.Code()), echo.Map{
		"error": appErr.Message(),
		"code":  code,
	})
}

// internalError logs err and answers 500 with message only.
func internalError(c echo.Context, logger *zap.Logger, err error, message string, fields ...zap.Field) error {
	appErr := apperrors.NewAppError(apperrors.ErrInternal, message, err)
	apperrors.LogError(logger, appErr, message, fields...)

	return c.JSON(apperrors.ToHTTPStatus(appErr.Code()), echo.Map{
		"error": appErr.Message(),
	})
}
