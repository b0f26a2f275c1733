package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/compsherpa/compsherpa/internal/llm"
	"github.com/compsherpa/compsherpa/internal/profile"
	"github.com/compsherpa/compsherpa/internal/prompts"
	"github.com/compsherpa/compsherpa/internal/reportcache"
	"github.com/compsherpa/compsherpa/internal/types"
)

// Source says where a returned report came from.
type Source string

// Report sources.
const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
	SourceCache    Source = "cache"
)

// Defaults for Config.
const (
	DefaultProviderTimeout = 30 * time.Second
	DefaultSaveTimeout     = 10 * time.Second
)

// Saver persists generated reports. Generator calls it in the background.
type Saver interface {
	SaveReport(ctx context.Context, report *types.Report, p *types.Profile, userID string) error
}

// Config bounds the generator's external calls.
type Config struct {
	ProviderTimeout time.Duration
	SaveTimeout     time.Duration
}

// Result is a generated (or reused) report with its metadata.
type Result struct {
	Report      *types.Report
	IsExploring bool
	GeneratedAt time.Time
	Fingerprint string
	Source      Source
	Cached      bool
}

// Generator produces reports: normalize, prompt, one provider attempt under a
// timeout, and the rule-based fallback for every failure.
type Generator struct {
	client llm.Client
	config Config
	saver  Saver
	cache  reportcache.Cache
	logger *zap.Logger
	now    func() time.Time

	saves sync.WaitGroup
}

// Option configures a Generator.
type Option func(*Generator)

// WithSaver persists every generated report for users with an id.
func WithSaver(s Saver) Option {
	return func(g *Generator) { g.saver = s }
}

// WithCache reuses and records reports per user id.
func WithCache(c reportcache.Cache) Option {
	return func(g *Generator) { g.cache = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator. A nil client behaves like an unconfigured provider.
func NewGenerator(client llm.Client, config Config, opts ...Option) *Generator {
	if client == nil {
		client = &llm.UnavailableClient{}
	}
	if config.ProviderTimeout <= 0 {
		config.ProviderTimeout = DefaultProviderTimeout
	}
	if config.SaveTimeout <= 0 {
		config.SaveTimeout = DefaultSaveTimeout
	}
	g := &Generator{
		client: client,
		config: config,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a report for p, reusing the user's cached report when the
// profile's fingerprint still matches. Provider failures never surface here; the
// only error is *profile.ErrInvalidProfile.
func (g *Generator) Generate(ctx context.Context, p *types.Profile, userID string) (*Result, error) {
	return g.generate(ctx, p, userID, false)
}

// Regenerate is Generate without cache reuse.
func (g *Generator) Regenerate(ctx context.Context, p *types.Profile, userID string) (*Result, error) {
	return g.generate(ctx, p, userID, true)
}

func (g *Generator) generate(ctx context.Context, p *types.Profile, userID string, force bool) (*Result, error) {
	if err := profile.CheckGeneratable(p); err != nil {
		return nil, err
	}

	fingerprint := reportcache.Fingerprint(p)
	logger := g.logger.With(zap.String("fingerprint", fingerprint), zap.Bool("has_user", userID != ""))

	if !force {
		if res := g.lookup(ctx, p, userID, logger); res != nil {
			reportsGenerated.WithLabelValues(string(SourceCache)).Inc()
			return res, nil
		}
	}

	n := profile.Normalize(p)
	r, source := g.draft(ctx, n, logger)
	if err := Validate(r, n.IsExploring); err != nil {
		// Fallback reports are valid by construction; reaching this is a bug.
		return nil, fmt.Errorf("generated report failed validation: %w", err)
	}

	res := &Result{
		Report:      r,
		IsExploring: n.IsExploring,
		GeneratedAt: g.now().UTC(),
		Fingerprint: fingerprint,
		Source:      source,
	}
	reportsGenerated.WithLabelValues(string(source)).Inc()
	logger.Info("report generated", zap.String("source", string(source)), zap.Bool("exploring", n.IsExploring))

	if userID != "" {
		g.remember(ctx, userID, res, logger)
		g.saveAsync(ctx, r.Clone(), p, userID, logger)
	}
	return res, nil
}

// draft makes the single provider attempt and falls back on any failure.
func (g *Generator) draft(ctx context.Context, n profile.NormalizedProfile, logger *zap.Logger) (*types.Report, Source) {
	prompt := prompts.BuildReportPrompt(n)
	provider := g.client.Name()

	start := time.Now()
	text, err := g.callProvider(ctx, prompt)
	providerDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err == nil {
		var r *types.Report
		r, err = ParseProviderResponse(text, n.IsExploring)
		if err == nil {
			attachMarketEvidence(r, n, ComputeBaseSalary(n))
			return r, SourceProvider
		}
	}

	reason := failureReason(err)
	providerFailures.WithLabelValues(provider, reason).Inc()
	logger.Warn("provider report unavailable, using fallback",
		zap.String("provider", provider),
		zap.String("reason", reason),
		zap.Error(err),
	)
	return SynthesizeFallback(n), SourceFallback
}

type providerReply struct {
	text string
	err  error
}

// callProvider bounds the provider call by ProviderTimeout even if the client
// does not honor its context. A timeout is a transport failure.
func (g *Generator) callProvider(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.config.ProviderTimeout)
	defer cancel()

	replies := make(chan providerReply, 1)
	go func() {
		text, err := g.client.GenerateContent(callCtx, prompt)
		replies <- providerReply{text: text, err: err}
	}()

	select {
	case reply := <-replies:
		return reply.text, reply.err
	case <-callCtx.Done():
		return "", &llm.ProviderError{
			Provider: llm.Provider(g.client.Name()),
			Kind:     llm.KindTransport,
			Err:      callCtx.Err(),
		}
	}
}

func (g *Generator) lookup(ctx context.Context, p *types.Profile, userID string, logger *zap.Logger) *Result {
	if g.cache == nil || userID == "" {
		return nil
	}
	entry, ok, err := g.cache.Get(ctx, userID)
	if err != nil {
		logger.Warn("report cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok || !reportcache.ShouldReuse(entry.Fingerprint, entry.Report, p) {
		return nil
	}
	if err := Validate(entry.Report, entry.IsExploring); err != nil {
		logger.Warn("cached report is invalid, regenerating", zap.Error(err))
		return nil
	}

	logger.Debug("reusing cached report")
	return &Result{
		Report:      entry.Report,
		IsExploring: entry.IsExploring,
		GeneratedAt: entry.GeneratedAt,
		Fingerprint: entry.Fingerprint,
		Source:      SourceCache,
		Cached:      true,
	}
}

func (g *Generator) remember(ctx context.Context, userID string, res *Result, logger *zap.Logger) {
	if g.cache == nil {
		return
	}
	entry := &reportcache.Entry{
		Fingerprint: res.Fingerprint,
		Report:      res.Report.Clone(),
		IsExploring: res.IsExploring,
		GeneratedAt: res.GeneratedAt,
	}
	if err := g.cache.Put(ctx, userID, entry); err != nil {
		logger.Warn("report cache write failed", zap.Error(err))
	}
}

// saveAsync persists the report without blocking the caller. The save outlives
// the request context but is bounded by SaveTimeout.
func (g *Generator) saveAsync(ctx context.Context, r *types.Report, p *types.Profile, userID string, logger *zap.Logger) {
	if g.saver == nil {
		return
	}
	g.saves.Add(1)
	go func() {
		defer g.saves.Done()
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.config.SaveTimeout)
		defer cancel()

		if err := g.saver.SaveReport(saveCtx, r, p, userID); err != nil {
			reportSaves.WithLabelValues("failed").Inc()
			logger.Error("failed to save report", zap.Error(err))
			return
		}
		reportSaves.WithLabelValues("saved").Inc()
	}()
}

// Wait blocks until background saves started so far have finished.
func (g *Generator) Wait() {
	g.saves.Wait()
}

func failureReason(err error) string {
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		return string(perr.Kind)
	}
	var merr *MalformedResponseError
	if errors.As(err, &merr) {
		return "malformed_" + merr.Stage
	}
	return "unknown"
}
