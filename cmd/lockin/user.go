package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/lockin/internal/auth"
	"github.com/Veraticus/lockin/internal/cli"
	"github.com/Veraticus/lockin/internal/config"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(userRegisterCmd())
	cmd.AddCommand(userTokenCmd())
	return cmd
}

func userRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print its sync token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			accounts, closeStore, err := openAccounts(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			session, err := accounts.Register(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Account created",
				fmt.Sprintf("Email:      %s\nSync token: %s\n\nLink the agent with:\n  lockin agent link %s",
					session.User.Email, session.SyncToken, session.SyncToken)))
			return err
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	cmd.Flags().String("name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func userTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log in and print a session token for the agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			accounts, closeStore, err := openAccounts(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			session, err := accounts.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.Token)
			return err
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func openAccounts(cmd *cobra.Command) (*auth.Accounts, func(), error) {
	cfg, err := config.LoadServerConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, nil, err
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return auth.NewAccounts(store, tokens, slog.Default()), func() { _ = store.Close() }, nil
}
