package catalog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/options"
	"github.com/arloliu/fameport/registry"
)

// DefaultPattern matches every object name.
const DefaultPattern = "?"

// Config holds the settings shared by catalog reads and writes.
type Config struct {
	pattern  string
	filter   *format.Range
	logger   *slog.Logger
	registry *registry.Registry
}

// Option configures a catalog read or write.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		pattern:  DefaultPattern,
		logger:   slog.New(slog.DiscardHandler),
		registry: registry.Default,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithPattern sets the wildcard pattern of a read.
func WithPattern(pattern string) Option {
	return options.New(func(c *Config) error {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w: empty wildcard pattern", errs.ErrInvalidName)
		}
		c.pattern = pattern

		return nil
	})
}

// WithRangeFilter restricts a read to series of rng's frequency, read over rng
// instead of their native range. Scalars are skipped when a filter is set.
func WithRangeFilter(rng format.Range) Option {
	return options.New(func(c *Config) error {
		if !rng.IsValid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidRange, rng)
		}
		c.filter = &rng

		return nil
	})
}

// WithLogger sets the logger used to report skipped objects and writes.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithRegistry replaces the default frequency registry.
func WithRegistry(reg *registry.Registry) Option {
	return options.NoError(func(c *Config) {
		if reg != nil {
			c.registry = reg
		}
	})
}
