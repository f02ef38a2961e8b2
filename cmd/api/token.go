package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clientapi/internal/auth"
	"clientapi/internal/config"
	"clientapi/internal/logger"
	"clientapi/internal/model"
)

// tokenCommand constructs the 'token' subcommand that signs an access token
// for the given Google subject without going through the exchange endpoint.
func tokenCommand(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates an access token for the given Google user ID",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")

			signed, err := issueToken(cfg.Auth, model.UserInfo{GoogleID: subject, Email: email, Name: name})
			if err != nil {
				logger.Fatal(context.Background(), "could not sign access token", zap.Error(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed) //nolint: forbidigo
		},
	}

	cmd.Flags().String("subject", "", "Google user ID written to the sub claim")
	cmd.Flags().String("email", "", "email claim")
	cmd.Flags().String("name", "", "name claim")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func issueToken(cfg config.AuthConfig, user model.UserInfo) (string, error) {
	m, err := auth.NewJWTManager(cfg)
	if err != nil {
		return "", err
	}
	return m.Issue(user)
}
