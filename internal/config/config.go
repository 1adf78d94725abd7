// Package config loads the fameport tool configuration from a TOML file.
//
//	store_dir   = "/var/lib/fameport"
//	compression = "zstd"
//	byte_order  = "little"
//	pattern     = "GDP?"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/fameport/catalog"
	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "fameport.toml"

// Config is the decoded configuration file.
type Config struct {
	StoreDir    string `toml:"store_dir"`
	Compression string `toml:"compression"`
	ByteOrder   string `toml:"byte_order"`
	Pattern     string `toml:"pattern"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Compression: "zstd",
		ByteOrder:   "little",
		Pattern:     catalog.DefaultPattern,
	}
}

// Load decodes path over the defaults. A missing file is not an error when
// optional is set. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}

		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", errs.ErrInvalidValue, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values of the configuration.
func (c Config) Validate() error {
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if _, err := endian.Parse(c.ByteOrder); err != nil {
		return err
	}
	if strings.TrimSpace(c.Pattern) == "" {
		return fmt.Errorf("%w: empty pattern", errs.ErrInvalidName)
	}

	return nil
}

// CompressionType returns the codec named by Compression.
func (c Config) CompressionType() (format.CompressionType, error) {
	ct, ok := format.ParseCompression(c.Compression)
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, c.Compression)
	}

	return ct, nil
}

// Engine returns the byte order named by ByteOrder.
func (c Config) Engine() (endian.EndianEngine, error) {
	return endian.Parse(c.ByteOrder)
}
