package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/invoice-engine/internal/common"
	"github.com/noah-isme/invoice-engine/internal/money"
	"github.com/noah-isme/invoice-engine/internal/obs"
)

// Store loads invoices from the system of record.
type Store interface {
	GetByNumber(ctx context.Context, number string) (Invoice, error)
}

// Service wraps the engine with caching, persistence lookup, tracing and metrics.
type Service struct {
	engine *Engine
	store  Store
	cache  *Cache
	logger zerolog.Logger
}

// ServiceConfig groups Service dependencies. Store and Cache are optional.
type ServiceConfig struct {
	Engine *Engine
	Store  Store
	Cache  *Cache
	Logger zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	engine := cfg.Engine
	if engine == nil {
		engine = NewEngine(DefaultOptions())
	}
	return &Service{engine: engine, store: cfg.Store, cache: cfg.Cache, logger: cfg.Logger}
}

// Engine returns the underlying engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Render computes the document for an invoice supplied by the caller.
func (s *Service) Render(ctx context.Context, inv Invoice) (Result, error) {
	return s.render(ctx, "inline", inv)
}

// RenderStored loads an invoice by number and renders it.
func (s *Service) RenderStored(ctx context.Context, number string) (Result, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Result{}, &ValidationError{Err: ErrInputShape, Violations: []Violation{{
			Field: "invoiceNumber", Kind: KindInputShape, Code: CodeRequired,
			Message: "invoiceNumber is required", Severity: SeverityError,
		}}}
	}
	if s.store == nil {
		return Result{}, ErrStoreUnavailable
	}
	ctx = obs.WithRenderID(ctx, uuid.NewString())
	inv, err := s.store.GetByNumber(ctx, number)
	if err != nil {
		return Result{}, err
	}
	return s.render(ctx, "stored", inv)
}

// Validate reports every finding for inv without rendering it.
func (s *Service) Validate(ctx context.Context, inv Invoice) ValidationResult {
	_, span := otel.Tracer("invoice.Service").Start(ctx, "InvoiceService.Validate")
	defer span.End()

	result := s.engine.Validate(inv)
	span.SetAttributes(
		attribute.String("invoice.number", inv.Number),
		attribute.Int("invoice.violations", len(result.Violations)),
	)
	return result
}

// Words converts an amount using the configured units.
func (s *Service) Words(amount decimal.Decimal) (string, error) {
	return s.engine.opts.Words.ToWords(money.Round(amount))
}

func (s *Service) render(ctx context.Context, source string, inv Invoice) (Result, error) {
	ctx, span := otel.Tracer("invoice.Service").Start(ctx, "InvoiceService.Render")
	defer span.End()

	start := time.Now()
	renderID := obs.RenderIDFromContext(ctx)
	if renderID == "" {
		renderID = uuid.NewString()
		ctx = obs.WithRenderID(ctx, renderID)
	}
	logger := s.loggerFor(ctx).With().Str("render_id", renderID).Str("invoice_number", inv.Number).Logger()
	outcome := "error"
	pages := 0
	cacheHit := false
	defer func() {
		elapsed := time.Since(start)
		span.SetAttributes(
			attribute.String("invoice.number", inv.Number),
			attribute.String("invoice.render_id", renderID),
			attribute.String("invoice.render.source", source),
			attribute.String("invoice.render.result", outcome),
			attribute.Int("invoice.pages", pages),
			attribute.Bool("invoice.render.cache_hit", cacheHit),
			attribute.Float64("invoice.render.duration_ms", obs.DurationMillis(elapsed)),
		)
		obs.ObserveRender(source, outcome, elapsed, pages)
	}()

	key := ""
	if s.cache.Enabled() {
		fp, err := s.engine.Fingerprint(inv)
		if err != nil {
			logger.Warn().Err(err).Msg("invoice fingerprint failed")
		} else {
			key = RenderKey(fp)
		}
	}
	if key != "" {
		var cached Result
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			obs.ObserveRenderCache("error")
			logger.Warn().Err(err).Msg("render cache read failed")
		case hit:
			obs.ObserveRenderCache("hit")
			cacheHit = true
			outcome = "ok"
			pages = cached.PageCount()
			observeFindings(logger, cached.Validation)
			logger.Debug().
				Int("pages", pages).
				Bool("cache_hit", true).
				Msg("invoice rendered")
			return cached, nil
		default:
			obs.ObserveRenderCache("miss")
		}
	}

	result, err := s.engine.Render(inv)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			outcome = "rejected"
			for _, v := range verr.Violations {
				obs.ObserveViolation(string(v.Kind), string(v.Severity))
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug().Err(err).Str("source", source).Msg("invoice rejected")
		return Result{}, err
	}

	outcome = "ok"
	pages = result.PageCount()
	observeFindings(logger, result.Validation)
	if err := s.cache.SetJSON(ctx, key, result); err != nil {
		logger.Warn().Err(err).Msg("render cache write failed")
	}
	logger.Debug().
		Str("source", source).
		Int("pages", pages).
		Int("violations", len(result.Validation.Violations)).
		Bool("cache_hit", false).
		Msg("invoice rendered")
	return result, nil
}

// loggerFor prefers the request-scoped logger installed by obs.RequestLogger.
func (s *Service) loggerFor(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return s.logger
}

// Fingerprint hashes the canonical encoding of inv together with the options that
// affect output, so equal fingerprints always render identical results.
func (e *Engine) Fingerprint(inv Invoice) (string, error) {
	payload, err := json.Marshal(struct {
		Invoice Invoice `json:"invoice"`
		Options Options `json:"options"`
	}{inv, e.opts})
	if err != nil {
		return "", fmt.Errorf("encode invoice: %w", err)
	}
	return common.Sha256Hex(payload), nil
}

// observeFindings records the warnings carried by a successful render, whether
// it was computed or served from cache.
func observeFindings(logger zerolog.Logger, vr ValidationResult) {
	for _, v := range vr.Violations {
		obs.ObserveViolation(string(v.Kind), string(v.Severity))
	}
	if mismatches := vr.ByKind(KindArithmetic); len(mismatches) > 0 {
		logger.Warn().
			Strs("fields", fieldNames(mismatches)).
			Msg("stored totals differ from recomputed totals")
	}
}

func fieldNames(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Field)
	}
	return out
}
