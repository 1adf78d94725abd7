package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/fameport/catalog"
)

func newCopyCmd(root *rootOptions) *cobra.Command {
	var (
		pattern string
		filter  filterOptions
	)

	cmd := &cobra.Command{
		Use:   "copy <source> <target>",
		Short: "Copy matching objects from one database into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd)
			if err != nil {
				return err
			}
			opts, err := readOptions(e, pattern, &filter)
			if err != nil {
				return err
			}

			src, dst := args[0], args[1]
			cat, report, err := catalog.Read(e.sess, src, opts...)
			if err != nil {
				return err
			}
			logReport(e, src, cat, report)

			if err := catalog.Write(e.sess, dst, cat, catalog.WithLogger(e.logger)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "copied %d object(s) from %s to %s\n", cat.Len(), src, dst)

			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "wildcard of the objects to copy")
	filter.register(cmd)

	return cmd
}
