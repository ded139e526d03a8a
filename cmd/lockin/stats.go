package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/cli"
	"github.com/Veraticus/lockin/internal/model"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show blocking activity and streak for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			period, _ := cmd.Flags().GetString("period")
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			user, err := store.GetUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", email, err)
			}

			summary, err := analytics.NewService(store, slog.Default()).Summary(ctx, user.ID, model.ParsePeriod(period))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(*summary))
			return err
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("period", "week", "day or week")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
