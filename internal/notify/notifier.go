package notify

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/repository"
)

// Notifier avisa a las apps cliente que hay un modelo nuevo.
type Notifier interface {
	NotifyModelUpdated(ctx context.Context, version int64) error
}

// Publisher difunde la señal de recarga a clientes conectados.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// ReloadNotifier escribe la señal en app_config y, si hay publisher, la difunde.
// Un fallo al publicar solo se loguea: la fuente de verdad es app_config.
type ReloadNotifier struct {
	logger    *zap.Logger
	appConfig repository.AppConfigRepository
	publisher Publisher
	now       func() time.Time
}

func NewReloadNotifier(logger *zap.Logger, appConfig repository.AppConfigRepository, publisher Publisher) *ReloadNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReloadNotifier{
		logger:    logger,
		appConfig: appConfig,
		publisher: publisher,
		now:       time.Now,
	}
}

func (n *ReloadNotifier) NotifyModelUpdated(ctx context.Context, version int64) error {
	n.logger.Info("notifying clients about model update", zap.Int64("version", version))

	signal := domain.ReloadSignal{
		ShouldReload: true,
		LastUpdate:   n.now().UTC(),
		Version:      version,
	}
	if err := n.appConfig.SaveReloadSignal(ctx, domain.AppConfigModelID, signal); err != nil {
		return err
	}

	if n.publisher != nil {
		payload, err := json.Marshal(signal)
		if err != nil {
			n.logger.Warn("encode reload signal failed", zap.Error(err))
		} else if err := n.publisher.Publish(ctx, payload); err != nil {
			n.logger.Warn("publish reload signal failed", zap.Error(err))
		}
	}

	n.logger.Info("clients notified successfully", zap.Int64("version", version))
	return nil
}
