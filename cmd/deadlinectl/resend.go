package main

import (
	"github.com/spf13/cobra"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
)

func newResendCmd(c *cli) *cobra.Command {
	var (
		limit  int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Email recent notifications that were never emailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := c.deps(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			if limit <= 0 {
				limit = deps.Config.Deadline.ResendLimit
			}
			result, err := deps.Dispatcher.ResendPending(cmd.Context(), notify.ResendRequest{
				Limit:  limit,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}
			return c.printJSON(result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "how many recent notifications to inspect (default deadline.resend_limit)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be sent without sending")
	return cmd
}
