package main

import (
	"github.com/spf13/cobra"

	"dsu-attendance/app/payload"
)

func normalizeCmd() *cobra.Command {
	var idProperty string

	cmd := &cobra.Command{
		Use:   "normalize <file|url|->",
		Short: "Flatten a feed payload into records",
		Long: `Decode a JSON payload and flatten it into a list of records the way the
server does before reconciliation.

Examples:
  # A local export
  attendancectl normalize present.json

  # A keyed roster object, keys stored as "ID No"
  attendancectl normalize --id-property "ID No" roster.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			records, trace := payload.Normalize(v, payload.WithIDProperty(idProperty))
			if records == nil {
				records = []payload.Record{}
			}
			return printJSON(cmd, map[string]any{
				"shape":   payload.Classify(v).String(),
				"trace":   trace,
				"sample":  payload.Sample(records),
				"records": records,
			})
		},
	}

	cmd.Flags().StringVar(&idProperty, "id-property", payload.DefaultIDProperty, "Key that receives the entry key of a plain object")
	return cmd
}
