package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/notify"
)

func newSweepCmd(c *cli) *cobra.Command {
	var (
		hours          int
		start, end     string
		resendExisting bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Notify everyone involved in tasks due inside a window",
		Long: `Run one deadline sweep and print its counts as JSON.

Without --start and --end the window opens deadline.lookahead_offset_hours
from now and lasts --hours (deadline.lookahead_hours by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (start == "") != (end == "") {
				return fmt.Errorf("--start and --end must be given together")
			}
			if start != "" {
				if err := (notify.Window{Start: start, End: end}).Validate(); err != nil {
					return err
				}
			}

			deps, err := c.deps(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			window := notify.Window{Start: start, End: end}
			if start == "" {
				length := hours
				if length <= 0 {
					length = deps.Config.Deadline.LookaheadHours
				}
				offset := time.Duration(deps.Config.Deadline.LookaheadOffsetHours) * time.Hour
				window = notify.LookaheadWindow(time.Now(), offset, time.Duration(length)*time.Hour)
			}

			result := deps.Dispatcher.Sweep(cmd.Context(), notify.SweepRequest{
				Window:         window,
				ResendExisting: resendExisting,
			})
			return c.printJSON(struct {
				notify.SweepResult
				Window notify.Window `json:"window"`
			}{result, window})
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "window length in hours")
	cmd.Flags().StringVar(&start, "start", "", "explicit window start (ISO-8601)")
	cmd.Flags().StringVar(&end, "end", "", "explicit window end (ISO-8601)")
	cmd.Flags().BoolVar(&resendExisting, "resend-existing", false,
		"retry email for notifications that exist but were never emailed")
	return cmd
}
