package memstore

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/internal/options"
)

// Config holds the settings of a Session.
type Config struct {
	dir         string
	compression format.CompressionType
	byteOrder   endian.EndianEngine
	clock       func() time.Time
	logger      *slog.Logger
}

// Option configures a Session.
type Option = options.Option[*Config]

func newConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		compression: format.CompressionZstd,
		byteOrder:   endian.Little(),
		clock:       time.Now,
		logger:      slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithDir persists every database as a file in dir. Databases are loaded
// from dir when first opened and saved when a writable handle is closed.
// Without a directory databases live only as long as the session.
func WithDir(dir string) Option {
	return options.New(func(c *Config) error {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("store directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", errs.ErrInvalidName, dir)
		}
		c.dir = dir

		return nil
	})
}

// WithCompression selects the payload codec of persisted databases.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		switch ct {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = ct
			return nil
		default:
			return fmt.Errorf("%w: %d", errs.ErrInvalidCompression, ct)
		}
	})
}

// WithByteOrder sets the byte order of multi-byte fields in saved files.
// Files written in either order load on any machine.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(c *Config) {
		if engine != nil {
			c.byteOrder = engine
		}
	})
}

// WithClock sets the source of object creation and modification times.
func WithClock(clock func() time.Time) Option {
	return options.NoError(func(c *Config) {
		if clock != nil {
			c.clock = clock
		}
	})
}

// WithLogger sets the logger for database loads and saves.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
