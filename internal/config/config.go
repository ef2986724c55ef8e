package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/invoice"
	"github.com/noah-isme/invoice-engine/internal/money"
	"github.com/noah-isme/invoice-engine/internal/words"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	RenderCacheTTL     time.Duration
	RequestBodyLimit   int64
	RateLimit          string
	Invoice            InvoiceConfig
}

// InvoiceConfig controls the render engine.
type InvoiceConfig struct {
	FirstPageItems       int
	PageItems            int
	DigitGrouping        string
	MajorUnit            string
	MinorUnit            string
	QuantityUnit         string
	WordsSuffix          string
	Tolerance            decimal.Decimal
	TolerateInvalidItems bool
}

// EngineOptions converts the settings into engine options.
func (c InvoiceConfig) EngineOptions() (invoice.Options, error) {
	formatter, err := money.ParseGrouping(c.DigitGrouping)
	if err != nil {
		return invoice.Options{}, err
	}
	return invoice.Options{
		Planner:   invoice.Planner{FirstPageCapacity: c.FirstPageItems, PageCapacity: c.PageItems},
		Formatter: formatter,
		Words: words.Converter{
			MajorUnit: c.MajorUnit,
			MinorUnit: c.MinorUnit,
			ZeroWord:  words.Rupees.ZeroWord,
			Suffix:    c.WordsSuffix,
		},
		Tolerance:            c.Tolerance,
		QuantityUnit:         c.QuantityUnit,
		TolerateInvalidItems: c.TolerateInvalidItems,
	}, nil
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        strings.TrimSpace(k.String("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		RenderCacheTTL:     parseDuration(k.String("RENDER_CACHE_TTL"), "10m"),
		RateLimit:          valueOrDefault(k.String("RATE_LIMIT"), "120-M"),
		Invoice: InvoiceConfig{
			DigitGrouping:        valueOrDefault(k.String("INVOICE_DIGIT_GROUPING"), "indian"),
			MajorUnit:            valueOrDefault(k.String("INVOICE_MAJOR_UNIT"), "Rupees"),
			MinorUnit:            valueOrDefault(k.String("INVOICE_MINOR_UNIT"), "Paisa"),
			QuantityUnit:         valueOrDefault(k.String("INVOICE_QUANTITY_UNIT"), "Pcs"),
			WordsSuffix:          strings.TrimSpace(k.String("INVOICE_WORDS_SUFFIX")),
			TolerateInvalidItems: parseBool(k.String("INVOICE_TOLERATE_PARTIAL_ITEMS")),
		},
	}

	var errs []error
	var err error
	if cfg.RequestBodyLimit, err = parseInt64(k.String("REQUEST_BODY_LIMIT_BYTES"), 1<<20); err != nil || cfg.RequestBodyLimit < 1 {
		errs = append(errs, fmt.Errorf("REQUEST_BODY_LIMIT_BYTES must be a positive integer"))
	}
	if cfg.Invoice.FirstPageItems, err = parseInt(k.String("INVOICE_FIRST_PAGE_ITEMS"), invoice.DefaultFirstPageCapacity); err != nil || cfg.Invoice.FirstPageItems < 1 {
		errs = append(errs, fmt.Errorf("INVOICE_FIRST_PAGE_ITEMS must be at least 1"))
	}
	if cfg.Invoice.PageItems, err = parseInt(k.String("INVOICE_PAGE_ITEMS"), invoice.DefaultPageCapacity); err != nil || cfg.Invoice.PageItems < 1 {
		errs = append(errs, fmt.Errorf("INVOICE_PAGE_ITEMS must be at least 1"))
	}
	if _, err := money.ParseGrouping(cfg.Invoice.DigitGrouping); err != nil {
		errs = append(errs, fmt.Errorf("INVOICE_DIGIT_GROUPING: %w", err))
	}
	tolerance, err := decimal.NewFromString(valueOrDefault(k.String("INVOICE_TOLERANCE"), "0.01"))
	if err != nil || tolerance.IsNegative() {
		errs = append(errs, fmt.Errorf("INVOICE_TOLERANCE must be a non-negative decimal"))
	}
	cfg.Invoice.Tolerance = tolerance

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(value string, fallback int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func parseInt64(value string, fallback int64) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// MustLoad behaves like Load but panics on error. The API entrypoint uses it.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
