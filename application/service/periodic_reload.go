package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/helixml/fundmatch/domain/fund"
)

// Fingerprinter is implemented by catalog sources that can cheaply report
// whether their content changed, for example by file size and mtime.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

// PeriodicReload re-indexes the catalog when its source changes.
type PeriodicReload struct {
	matcher  *Matcher
	source   fund.Source
	logger   *slog.Logger
	interval time.Duration

	last   string
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodicReload creates a PeriodicReload. An interval of zero, or a
// source that cannot fingerprint itself, disables it.
func NewPeriodicReload(matcher *Matcher, source fund.Source, interval time.Duration, logger *slog.Logger) *PeriodicReload {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeriodicReload{
		matcher:  matcher,
		source:   source,
		logger:   logger,
		interval: interval,
	}
}

// Enabled reports whether Start will launch the background loop.
func (p *PeriodicReload) Enabled() bool {
	if p.interval <= 0 || p.source == nil {
		return false
	}
	_, ok := p.source.(Fingerprinter)
	return ok
}

// Start begins watching in a background goroutine. The current fingerprint is
// recorded first so the already-loaded catalog is not rebuilt.
func (p *PeriodicReload) Start(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Info("catalog reload disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fp := p.source.(Fingerprinter)
	if current, err := fp.Fingerprint(ctx); err == nil {
		p.last = current
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Go(func() {
		p.run(ctx, fp)
	})

	p.logger.Info("catalog reload started",
		slog.String("source", p.source.Describe()),
		slog.Duration("interval", p.interval),
	)
}

// Stop cancels the background goroutine and waits for it to finish.
func (p *PeriodicReload) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *PeriodicReload) run(ctx context.Context, fp Fingerprinter) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx, fp)
		}
	}
}

func (p *PeriodicReload) check(ctx context.Context, fp Fingerprinter) {
	current, err := fp.Fingerprint(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("catalog fingerprint failed", slog.String("error", err.Error()))
		return
	}
	if current == p.last {
		return
	}

	if err := p.matcher.ReloadFromSource(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error("catalog reload failed, keeping previous index",
			slog.String("source", p.source.Describe()),
			slog.String("error", err.Error()),
		)
		return
	}
	p.last = current
}
