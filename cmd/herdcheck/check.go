package main

import (
	"bufio"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check [id...]",
		Short: "Check records by id; reads ids line by line from stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.newService(cmd.Context(), nil)
			emit := func(id string) error {
				if !asJSON {
					a.printf("%s\n", svc.Check(id))
					return nil
				}
				return json.NewEncoder(a.out).Encode(svc.Lookup(id))
			}
			if len(args) > 0 {
				for _, id := range args {
					if err := emit(id); err != nil {
						return err
					}
				}
				return nil
			}
			return checkLines(a, emit)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print structured results as JSON lines")
	return cmd
}

// checkLines answers one id per input line until EOF. Blank lines are ignored.
func checkLines(a *app, emit func(string) error) error {
	sc := bufio.NewScanner(a.in)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := emit(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
