// Command fameport lists, copies and inspects store databases.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/fameport/internal/config"
	"github.com/arloliu/fameport/memstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath  string
	storeDir    string
	compression string
	byteOrder   string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "fameport",
		Short:         "Move catalogs of series and scalars in and out of store databases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultFile, "configuration file")
	flags.StringVar(&opts.storeDir, "store-dir", "", "directory holding the database files")
	flags.StringVar(&opts.compression, "compression", "", "payload codec of saved databases: none, zstd, s2, lz4")
	flags.StringVar(&opts.byteOrder, "byte-order", "", "byte order of saved databases: little, big, native")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(newCatalogCmd(opts))
	root.AddCommand(newCopyCmd(opts))
	root.AddCommand(newInfoCmd(opts))
	root.AddCommand(newListCmd(opts))

	return root
}

// env is what every command runs against.
type env struct {
	cfg    config.Config
	sess   *memstore.Session
	logger *slog.Logger
}

// setup merges the configuration file with the flags given on the command
// line and opens a store session over the configured directory.
func (o *rootOptions) setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()

	cfg, err := config.Load(o.configPath, !flags.Changed("config"))
	if err != nil {
		return nil, err
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir = o.storeDir
	}
	if flags.Changed("compression") {
		cfg.Compression = o.compression
	}
	if flags.Changed("byte-order") {
		cfg.ByteOrder = o.byteOrder
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = "."
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ct, err := cfg.CompressionType()
	if err != nil {
		return nil, err
	}
	engine, err := cfg.Engine()
	if err != nil {
		return nil, err
	}
	sess, err := memstore.New(
		memstore.WithDir(cfg.StoreDir),
		memstore.WithCompression(ct),
		memstore.WithByteOrder(engine),
		memstore.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, sess: sess, logger: logger}, nil
}
