package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cellar/auth"
)

func newTokenCommand() *cobra.Command {
	var (
		sub string
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sub == "" {
				return errors.New("--sub is required")
			}
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if cfg.AuthSecret == "" {
				return errors.New("auth.secret is not set")
			}
			token, err := auth.NewValidator(cfg.AuthSecret).Issue(sub, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "owner id to put into the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
