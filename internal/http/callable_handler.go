package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"place-trainer/internal/service"
)

type retrainer interface {
	ManualRetrain(ctx context.Context) (service.RetrainResult, error)
}

type statsProvider interface {
	GetModelStats(ctx context.Context) (service.ModelStats, error)
}

type placeVerifier interface {
	VerifyPlace(ctx context.Context, caller *service.Identity, in service.VerifyPlaceInput) (service.VerifyPlaceResult, error)
}

type downloadInfoProvider interface {
	GetDownloadInfo(ctx context.Context) (service.ModelDownload, error)
}

// CallableHandler expone las funciones callable del modelo.
type CallableHandler struct {
	logger   *zap.Logger
	retrain  retrainer
	stats    statsProvider
	verifier placeVerifier
	models   downloadInfoProvider
}

// NewCallableHandler crea una instancia de CallableHandler con dependencias necesarias.
func NewCallableHandler(
	logger *zap.Logger,
	retrain retrainer,
	stats statsProvider,
	verifier placeVerifier,
	models downloadInfoProvider,
) *CallableHandler {
	return &CallableHandler{
		logger:   logger,
		retrain:  retrain,
		stats:    stats,
		verifier: verifier,
		models:   models,
	}
}

// ManualRetrain maneja POST /callable/manualRetrain.
func (h *CallableHandler) ManualRetrain(c *gin.Context) {
	res, err := h.retrain.ManualRetrain(c.Request.Context())
	if err != nil {
		writeCallableError(c, h.logger, err)
		return
	}
	writeResult(c, res)
}

// GetModelStats maneja POST /callable/getModelStats.
func (h *CallableHandler) GetModelStats(c *gin.Context) {
	stats, err := h.stats.GetModelStats(c.Request.Context())
	if err != nil {
		writeCallableError(c, h.logger, err)
		return
	}
	writeResult(c, stats)
}

// VerifyPlace maneja POST /callable/verifyPlace. Requiere identidad.
func (h *CallableHandler) VerifyPlace(c *gin.Context) {
	identity := GetIdentity(c)

	var req callableRequest[service.VerifyPlaceInput]
	if err := bindCallable(c, &req); err != nil && identity != nil {
		h.logger.Warn("invalid verify place request", zap.Error(err))
		writeCallableError(c, h.logger, &service.CallableError{Kind: service.ErrInvalidArgument, Message: "invalid request"})
		return
	}

	res, err := h.verifier.VerifyPlace(c.Request.Context(), identity, req.Data)
	if err != nil {
		writeCallableError(c, h.logger, err)
		return
	}
	writeResult(c, res)
}

// GetModelDownloadURL maneja POST /callable/getModelDownloadUrl.
func (h *CallableHandler) GetModelDownloadURL(c *gin.Context) {
	info, err := h.models.GetDownloadInfo(c.Request.Context())
	if err != nil {
		writeCallableError(c, h.logger, err)
		return
	}
	writeResult(c, info)
}
