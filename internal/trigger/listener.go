package trigger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"place-trainer/internal/domain"
)

// PlaceCreatedChannel es el canal que notifica el trigger de la tabla de pendientes.
const PlaceCreatedChannel = "pending_place_created"

// PlaceCreatedHandler reacciona a un lugar recién insertado.
type PlaceCreatedHandler interface {
	OnPlaceCreated(ctx context.Context, evt domain.PlaceCreatedEvent)
}

type notificationSource interface {
	Listen(ctx context.Context, channel string) error
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close()
}

// Listener escucha inserciones vía LISTEN/NOTIFY y despacha cada evento en su
// propia goroutine, como invocaciones independientes.
type Listener struct {
	logger  *zap.Logger
	connect func(ctx context.Context) (notificationSource, error)
	handler PlaceCreatedHandler
	backoff time.Duration
	wg      sync.WaitGroup
}

func NewListener(logger *zap.Logger, pool *pgxpool.Pool, handler PlaceCreatedHandler) *Listener {
	return newListener(logger, func(ctx context.Context) (notificationSource, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return &pooledSource{conn: conn}, nil
	}, handler)
}

func newListener(logger *zap.Logger, connect func(ctx context.Context) (notificationSource, error), handler PlaceCreatedHandler) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		logger:  logger,
		connect: connect,
		handler: handler,
		backoff: 2 * time.Second,
	}
}

// Run bloquea hasta que ctx se cancela y espera a los handlers en curso.
// Si la conexión se cae, reconecta tras un backoff fijo.
func (l *Listener) Run(ctx context.Context) error {
	defer l.wg.Wait()
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("place listener disconnected", zap.Error(err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	src, err := l.connect(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Listen(ctx, PlaceCreatedChannel); err != nil {
		return err
	}
	l.logger.Info("listening for new places", zap.String("channel", PlaceCreatedChannel))

	for {
		n, err := src.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		evt, err := DecodeEvent(n.Payload)
		if err != nil {
			l.logger.Warn("invalid place notification", zap.String("payload", n.Payload), zap.Error(err))
			continue
		}
		l.dispatch(ctx, evt)
	}
}

func (l *Listener) dispatch(ctx context.Context, evt domain.PlaceCreatedEvent) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				l.logger.Error("place created handler panicked", zap.Any("panic", r), zap.String("place_id", evt.ID))
			}
		}()
		// Una invocación sigue aunque el listener se esté apagando.
		l.handler.OnPlaceCreated(context.WithoutCancel(ctx), evt)
	}()
}

// DecodeEvent interpreta el payload JSON que emite el trigger de Postgres.
func DecodeEvent(payload string) (domain.PlaceCreatedEvent, error) {
	var evt domain.PlaceCreatedEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return domain.PlaceCreatedEvent{}, err
	}
	if evt.ID == "" {
		return domain.PlaceCreatedEvent{}, errors.New("place notification without id")
	}
	return evt, nil
}

type pooledSource struct {
	conn *pgxpool.Conn
}

func (s *pooledSource) Listen(ctx context.Context, channel string) error {
	_, err := s.conn.Exec(ctx, "LISTEN "+channel)
	return err
}

func (s *pooledSource) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return s.conn.Conn().WaitForNotification(ctx)
}

// Close descarta la conexión: una conexión con LISTEN activo no vuelve al pool.
func (s *pooledSource) Close() {
	conn := s.conn.Hijack()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = conn.Close(ctx)
}
