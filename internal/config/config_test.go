package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/invoice-engine/internal/config"
	"github.com/noah-isme/invoice-engine/internal/invoice"
	"github.com/noah-isme/invoice-engine/internal/money"
)

func blankInvoiceEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":                   "",
		"REDIS_URL":                      "",
		"RENDER_CACHE_TTL":               "",
		"REQUEST_BODY_LIMIT_BYTES":       "",
		"RATE_LIMIT":                     "",
		"INVOICE_FIRST_PAGE_ITEMS":       "",
		"INVOICE_PAGE_ITEMS":             "",
		"INVOICE_DIGIT_GROUPING":         "",
		"INVOICE_MAJOR_UNIT":             "",
		"INVOICE_MINOR_UNIT":             "",
		"INVOICE_QUANTITY_UNIT":          "",
		"INVOICE_TOLERANCE":              "",
		"INVOICE_TOLERATE_PARTIAL_ITEMS": "",
		"INVOICE_WORDS_SUFFIX":           "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(blankInvoiceEnv())
	require.NoError(t, err)

	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, 10*time.Minute, cfg.RenderCacheTTL)
	require.Equal(t, int64(1<<20), cfg.RequestBodyLimit)
	require.Equal(t, "120-M", cfg.RateLimit)
	require.Equal(t, 7, cfg.Invoice.FirstPageItems)
	require.Equal(t, 14, cfg.Invoice.PageItems)
	require.Equal(t, "0.01", cfg.Invoice.Tolerance.String())
	require.False(t, cfg.Invoice.TolerateInvalidItems)

	opts, err := cfg.Invoice.EngineOptions()
	require.NoError(t, err)
	require.Equal(t, money.Indian, opts.Formatter)
	require.Equal(t, "Rupees", opts.Words.MajorUnit)
	require.Equal(t, "Paisa", opts.Words.MinorUnit)
	require.Equal(t, "Pcs", opts.QuantityUnit)
}

func TestLoadOverrides(t *testing.T) {
	env := blankInvoiceEnv()
	env["PORT"] = ":9090"
	env["INVOICE_FIRST_PAGE_ITEMS"] = "10"
	env["INVOICE_PAGE_ITEMS"] = "20"
	env["INVOICE_DIGIT_GROUPING"] = "western"
	env["INVOICE_WORDS_SUFFIX"] = "Only"
	env["INVOICE_TOLERATE_PARTIAL_ITEMS"] = "true"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	opts, err := cfg.Invoice.EngineOptions()
	require.NoError(t, err)
	require.Equal(t, 10, opts.Planner.FirstPageCapacity)
	require.Equal(t, 20, opts.Planner.PageCapacity)
	require.Equal(t, money.Western, opts.Formatter)
	require.Equal(t, "Only", opts.Words.Suffix)
	require.True(t, opts.TolerateInvalidItems)
}

func TestLoadRejectsInvalidInvoiceSettings(t *testing.T) {
	cases := map[string]string{
		"INVOICE_FIRST_PAGE_ITEMS": "0",
		"INVOICE_PAGE_ITEMS":       "many",
		"INVOICE_DIGIT_GROUPING":   "3",
		"INVOICE_TOLERANCE":        "-0.5",
		"REQUEST_BODY_LIMIT_BYTES": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			env := blankInvoiceEnv()
			env[key] = value
			_, err := config.LoadForTests(env)
			require.ErrorContains(t, err, key)
		})
	}
}

func TestZeroToleranceReachesEngine(t *testing.T) {
	env := blankInvoiceEnv()
	env["INVOICE_TOLERANCE"] = "0"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)

	opts, err := cfg.Invoice.EngineOptions()
	require.NoError(t, err)
	effective := invoice.NewEngine(opts).Options().Tolerance
	require.True(t, effective.IsZero(), "effective tolerance %s", effective)
}

func TestMustLoad(t *testing.T) {
	for key, value := range blankInvoiceEnv() {
		t.Setenv(key, value)
	}
	require.NotPanics(t, func() {
		cfg := config.MustLoad()
		require.Equal(t, 7, cfg.Invoice.FirstPageItems)
	})

	t.Setenv("INVOICE_FIRST_PAGE_ITEMS", "0")
	require.Panics(t, func() { config.MustLoad() })
}
