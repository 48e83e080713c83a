package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/service/auth"
)

func newTokenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an access token for a user",
		Long: `Print a signed access token for user-id. Schedulers calling
POST /api/notifications/check-deadlines authenticate with such a token.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.setup()
			if err != nil {
				return err
			}

			svc, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return err
			}
			token, err := svc.GenerateToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(c.stdout, token)
			return err
		},
	}
}
