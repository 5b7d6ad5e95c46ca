package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newReportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the effective configuration's security posture as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, done, err := buildEngine(cmd, opts, false)
			if err != nil {
				return err
			}
			defer done()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(engine.SecurityReport())
		},
	}
}
