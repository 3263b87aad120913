package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msuny-c/fdb-viewer/internal/domain/auth"
)

func newTokenCmd(app *cli) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the viewer upload endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := auth.NewService(auth.Config{Secret: app.cfg.Auth.Secret, TokenTTL: app.cfg.Auth.TokenTTL}, app.logger)
			resp, err := svc.Issue(cmd.Context(), auth.IssueRequest{Subject: subject, TTL: ttl})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", resp.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "fdbclip", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default from config)")
	return cmd
}
