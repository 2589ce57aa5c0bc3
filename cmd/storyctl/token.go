package main

import (
	"fmt"
	"io"
	"time"

	"bedtime-server/internal/auth"
	"bedtime-server/internal/config"
	"bedtime-server/internal/domain"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var user domain.User
	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := config.ReadSecret(secretsFlag, "jwt_secret")
			if err != nil {
				return err
			}
			return runToken(secret, user, ttl, cmd.OutOrStdout())
		},
	}
	tokenCmd.Flags().StringVarP(&user.ID, "user", "u", "", "User ID (required)")
	tokenCmd.Flags().StringVarP(&user.Email, "email", "e", "", "User email")
	tokenCmd.Flags().StringVarP(&user.Name, "name", "n", "", "Display name")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	return tokenCmd
}

func runToken(secret string, user domain.User, ttl time.Duration, w io.Writer) error {
	if user.ID == "" {
		return fmt.Errorf("--user required")
	}
	token, err := auth.SignSession(secret, user, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}
