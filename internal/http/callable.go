package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"place-trainer/internal/service"
)

// callableRequest es el sobre {"data": ...} que envían los SDK de funciones callable.
type callableRequest[T any] struct {
	Data T `json:"data"`
}

// bindCallable acepta body vacío como data vacía.
func bindCallable[T any](c *gin.Context, req *callableRequest[T]) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeResult(c *gin.Context, result any) {
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// writeCallableError traduce errores de servicio al formato de error callable.
// Solo se expone el mensaje pensado para el cliente, nunca la causa.
func writeCallableError(c *gin.Context, logger *zap.Logger, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.Is(err, service.ErrInvalidArgument):
		status, code = http.StatusBadRequest, "INVALID_ARGUMENT"
	}

	message := "internal error"
	var ce *service.CallableError
	if errors.As(err, &ce) {
		message = ce.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("callable failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": gin.H{"status": code, "message": message}})
}
