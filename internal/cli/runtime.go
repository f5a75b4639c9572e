package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/tasktimer/internal/config"
	"github.com/sandeepkv93/tasktimer/internal/logging"
	"github.com/sandeepkv93/tasktimer/internal/model"
	"github.com/sandeepkv93/tasktimer/internal/mutation"
	"github.com/sandeepkv93/tasktimer/internal/storage"
)

// runtime is the per-invocation wiring: config, logger, store and engine.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	engine  mutation.Engine
	opts    *Options
	closers []func() error
}

func openRuntime(opts *Options) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Path, logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.Debug("runtime ready", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		engine:  mutation.New(opts.Clock, opts.IDs),
		opts:    opts,
		closers: []func() error{closeStore, closeLog},
	}, nil
}

func (r *runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *runtime) load(ctx context.Context) model.Collection {
	return storage.LoadOrEmpty(ctx, r.store, r.logger)
}

func (r *runtime) save(ctx context.Context, c model.Collection) error {
	if err := r.store.Save(ctx, c); err != nil {
		r.logger.Error("persist tasks", "error", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// withRuntime opens the runtime around fn and closes it afterwards.
func withRuntime(opts *Options, fn func(*runtime) error) error {
	rt, err := openRuntime(opts)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}
