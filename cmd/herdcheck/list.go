package main

import (
	"encoding/json"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded records ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records := a.newService(cmd.Context(), nil).Registry().Records()
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			_, _ = tw.Write([]byte("ID\tCATEGORY\tYEARS\tMONTHS\tUDDERS\n"))
			for _, r := range records {
				udders := "-"
				if r.Udders != nil {
					udders = strconv.Itoa(*r.Udders)
				}
				_, _ = tw.Write([]byte(r.ID + "\t" + r.Category + "\t" + strconv.Itoa(r.AgeYears) + "\t" + strconv.Itoa(r.AgeMonths) + "\t" + udders + "\n"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}
