package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/http-methods/internal/config"
	"github.com/samvad-hq/http-methods/internal/logger"
	"github.com/samvad-hq/http-methods/internal/params"
	"github.com/samvad-hq/http-methods/internal/storage"
	"github.com/samvad-hq/http-methods/pkg/httpmethods"
	"github.com/samvad-hq/http-methods/pkg/publishers"
)

// ErrInvalidParameters wraps parameter resolution failures.
var ErrInvalidParameters = errors.New("invalid invocation parameters")

// Invoker is the orchestration caller around the executor. It resolves declarative
// parameters, honors check mode, and reports results to history and publishers.
type Invoker struct {
	cfg      *config.Config
	executor *httpmethods.Executor
	store    storage.Store
	fanout   *publishers.Fanout
	log      logger.Logger
	newID    func() string
}

// Option overrides a dependency built by NewInvoker.
type Option func(*Invoker)

// WithExecutor replaces the default executor.
func WithExecutor(e *httpmethods.Executor) Option {
	return func(i *Invoker) { i.executor = e }
}

// WithStore replaces the configured history store.
func WithStore(s storage.Store) Option {
	return func(i *Invoker) { i.store = s }
}

// WithFanout replaces the publishers loaded from publishers_file.
func WithFanout(f *publishers.Fanout) Option {
	return func(i *Invoker) { i.fanout = f }
}

// NewInvoker wires executor, storage and publishers from config.
func NewInvoker(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Invoker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	inv := &Invoker{
		cfg:   cfg,
		log:   log,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(inv)
	}

	if inv.executor == nil {
		inv.executor = httpmethods.NewExecutor(httpmethods.WithLogger(log))
	}
	// Fail at startup rather than on the first request.
	if err := inv.executor.CheckCapabilities(); err != nil {
		return nil, err
	}

	if inv.store == nil {
		store, err := storage.Open(storage.Options{
			Backend:         storage.Backend(cfg.StorageType),
			Path:            cfg.BBoltPath,
			EntryTTL:        cfg.StorageTTL,
			CleanupInterval: cfg.StorageCleanupInterval,
		})
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		inv.store = store
		log.DebugObj("storage initialized", "storage_config", map[string]any{
			"type":                     cfg.StorageType,
			"path":                     cfg.BBoltPath,
			"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
			"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
		})
	}

	if inv.fanout == nil {
		fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
		if err != nil {
			inv.closeStore()
			return nil, err
		}
		inv.fanout = fanout
	}

	return inv, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	sinks, err := publishers.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabled := sinks.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.DebugObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Defaults returns the parameter defaults derived from config.
func (i *Invoker) Defaults() params.Defaults {
	return params.Defaults{Server: i.cfg.DefaultServer, TimeoutSeconds: i.cfg.DefaultTimeout}
}

// Invoke resolves the invocation and runs one request. The returned error is non-nil only when the
// parameters are invalid; request failures are carried by the report.
func (i *Invoker) Invoke(ctx context.Context, in params.Invocation) (Report, error) {
	p, err := params.Resolve(in, i.Defaults())
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	start := time.Now()
	rep := Report{Parameters: p, StartedAt: start.UTC()}
	if in.CheckMode {
		rep.Skipped = true
		i.log.InfoObj("check mode: request not sent", "invocation", p)
		return rep, nil
	}

	res := i.executor.Execute(ctx, p)
	rep.InvocationID = i.newID()
	rep.Result = &res
	rep.Duration = time.Since(start)
	rep.DurationMS = rep.Duration.Milliseconds()

	i.record(rep)
	i.publish(ctx, rep)
	return rep, nil
}

// record stores the report in history; failures are logged only.
func (i *Invoker) record(rep Report) {
	err := i.store.Record(storage.Entry{
		ID:          rep.InvocationID,
		Parameters:  rep.Parameters,
		Result:      *rep.Result,
		StartedAt:   rep.StartedAt,
		CompletedAt: rep.StartedAt.Add(rep.Duration),
	})
	if err != nil {
		i.log.WarnObj("history record failed", "error", err.Error())
	}
}

// publish reports the result to sinks; failures are logged only.
func (i *Invoker) publish(ctx context.Context, rep Report) {
	if i.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(rep.InvocationID, rep.Parameters, *rep.Result)
	delivered, err := i.fanout.Publish(ctx, evt)
	if err != nil {
		i.log.WarnObj("result publish failed", "publish_error", map[string]any{
			"invocation_id": rep.InvocationID,
			"delivered":     delivered,
			"error":         err.Error(),
		})
	}
}

// History exposes the result store.
func (i *Invoker) History() storage.Store { return i.store }

// Close releases storage and publisher resources.
func (i *Invoker) Close() error {
	var errs []error
	if i.fanout != nil {
		errs = append(errs, i.fanout.Close())
	}
	if i.store != nil {
		errs = append(errs, i.store.Close())
	}
	return errors.Join(errs...)
}

func (i *Invoker) closeStore() {
	if i == nil || i.store == nil {
		return
	}
	if err := i.store.Close(); err != nil {
		i.log.ErrorObj("storage close failed", "error", err)
	}
}
