package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"herdcheck/internal/feed"
)

func newFeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Manage feed storage",
	}
	cmd.AddCommand(newFeedImportCmd(a), newFeedListCmd(a))
	return cmd
}

func newFeedImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Copy a CSV feed into the configured blob or SQL feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := feed.File(args[0]).Rows(cmd.Context())
			if err != nil {
				return err
			}
			report, err := feed.Import(cmd.Context(), rows, a.cfg.Feed, a.cfg.Blob)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			a.logger.Info("feed imported",
				"driver", report.Driver,
				"target", report.Target,
				"imported", report.Imported,
				"skipped", report.Skipped,
			)
			return json.NewEncoder(a.out).Encode(report)
		},
	}
}

func newFeedListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List feed objects in the configured blob store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			infos, err := feed.Objects(cmd.Context(), a.cfg.Blob, prefix)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(a.out).Encode(infos)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = tw.Write([]byte("KEY\tSIZE\tMODIFIED\n"))
			for _, info := range infos {
				_, _ = tw.Write([]byte(info.Key + "\t" + strconv.FormatInt(info.Size, 10) + "\t" + info.LastModified.UTC().Format(time.RFC3339) + "\n"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print objects as JSON")
	return cmd
}
