package scheduler

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // la zona del job no depende del sistema

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job es una tarea programada; recibe un contexto con timeout propio.
type Job func(ctx context.Context)

// Scheduler corre jobs con expresiones cron de 5 campos en una zona horaria fija.
type Scheduler struct {
	logger  *zap.Logger
	cron    *cron.Cron
	loc     *time.Location
	timeout time.Duration
}

func New(logger *zap.Logger, timezone string, timeout time.Duration) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		logger: logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{logger: logger.Sugar()}),
			cron.WithChain(cron.Recover(cronLogger{logger: logger.Sugar()})),
		),
		loc:     loc,
		timeout: timeout,
	}, nil
}

// Add registra un job bajo un nombre para logs.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		job(ctx)
		s.logger.Info("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.logger.Info("scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Next devuelve la próxima ejecución de cada job registrado, en la zona del scheduler.
func (s *Scheduler) Next() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Schedule.Next(time.Now().In(s.loc)))
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop deja de programar y espera a los jobs en curso o a que ctx venza.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
