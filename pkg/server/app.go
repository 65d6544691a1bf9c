package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	xhttp "FinBeta/pkg/http"
	pkgkafka "FinBeta/pkg/kafka"
	applogger "FinBeta/pkg/logger"
)

// Worker is a background loop that runs until its context is cancelled.
type Worker interface {
	Run(ctx context.Context) error
}

// App runs the HTTP API and optional background workers until a signal
// arrives or Run's context is cancelled.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	workers         []Worker
	shutdownTimeout time.Duration
}

// New creates an App. A nil consumer means no Kafka worker.
func New(log *applogger.Logger, httpServer *xhttp.Server, consumer *pkgkafka.Consumer, shutdownTimeout time.Duration) *App {
	a := &App{log: log, httpServer: httpServer, shutdownTimeout: shutdownTimeout}
	if consumer != nil {
		a.workers = append(a.workers, consumer)
	}
	return a
}

// AddWorker registers an extra background loop.
func (a *App) AddWorker(w Worker) { a.workers = append(a.workers, w) }

// Run blocks until SIGINT/SIGTERM or ctx is done, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()

	var wg sync.WaitGroup
	errCh := make(chan error, len(a.workers))
	for _, w := range a.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Run(workCtx); err != nil {
				a.log.Error("worker stopped with error", applogger.Error(err))
				errCh <- err
			}
		}(w)
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			cancelWork()
			wg.Wait()
			return err
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	return errors.Join(runErr, a.shutdown(cancelWork, &wg))
}

func (a *App) shutdown(cancelWork context.CancelFunc, wg *sync.WaitGroup) error {
	a.log.Info("shutting down")
	var err error
	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if serr := a.httpServer.Stop(ctx); serr != nil {
			a.log.Error("http shutdown error", applogger.Error(serr))
			err = serr
		}
	}

	cancelWork()
	wg.Wait()
	a.log.Info("shutdown complete")
	a.log.RemoveCollector()
	return err
}
