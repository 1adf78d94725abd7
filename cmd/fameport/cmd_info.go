package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arloliu/fameport/endian"
	"github.com/arloliu/fameport/internal/dbfile"
	"github.com/arloliu/fameport/registry"
)

func newInfoCmd(root *rootOptions) *cobra.Command {
	var objects bool

	cmd := &cobra.Command{
		Use:   "info <database>",
		Short: "Describe the file of a saved database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}

			path := e.sess.Path(args[0])
			if path == "" {
				return fmt.Errorf("no file for database %q", args[0])
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			stats, err := dbfile.Inspect(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			cs := stats.Compression()
			fmt.Fprintf(out, "file:        %s\n", path)
			fmt.Fprintf(out, "objects:     %d\n", stats.Objects)
			fmt.Fprintf(out, "byte order:  %s-endian\n", endian.Name(stats.Header.Engine()))
			fmt.Fprintf(out, "size:        %s\n", humanize.Bytes(uint64(stats.FileSize))) //nolint:gosec
			fmt.Fprintf(out, "compression: %s, %s payload from %s (%.1f%% saved)\n",
				cs.Algorithm,
				humanize.Bytes(uint64(cs.CompressedSize)), //nolint:gosec
				humanize.Bytes(uint64(cs.OriginalSize)),   //nolint:gosec
				cs.SpaceSavings(),
			)

			if !objects {
				return nil
			}

			decoded, _, err := dbfile.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCLASS\tTYPE\tLENGTH\tMODIFIED")
			for _, o := range decoded {
				class, err := registry.ClassLabel(o.Info.Class)
				if err != nil {
					return err
				}
				typ, err := registry.TypeLabel(e.sess, o.Info.Type)
				if err != nil {
					typ = o.Info.Type.String()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					o.Info.Name, class, typ, o.Len(), humanize.Time(o.Info.ModifiedAt))
			}

			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&objects, "objects", false, "also list the stored objects")

	return cmd
}
