package engine

import "golang.org/x/text/language"

// ============================================================================
// FORMATTER OPTIONS — Functional options for NewFormatter()
// ============================================================================

// Option configures display formatting via functional options pattern.
type Option func(*config)

type config struct {
	Locale         language.Tag
	CurrencySymbol string
}

// WithLocale sets the BCP 47 locale used for digit grouping ("es-CO", "en").
// An unparseable tag keeps the default.
func WithLocale(tag string) Option {
	return func(c *config) {
		if t, err := language.Parse(tag); err == nil {
			c.Locale = t
		}
	}
}

// WithCurrencySymbol sets the prefix for currency values.
func WithCurrencySymbol(symbol string) Option {
	return func(c *config) {
		c.CurrencySymbol = symbol
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Locale:         language.MustParse("es-CO"),
		CurrencySymbol: "$",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
