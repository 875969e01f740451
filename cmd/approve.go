package main

import (
	"botlist/internal/config"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// approveCommand constructs the 'approve' subcommand, the moderation action
// that publishes a pending listing.
func approveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [listing id]",
		Short: "Approves a pending listing",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := logger.WithFields(context.Background(), zap.String("listingID", args[0]))

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			listings := getListingService(ctx, cfg, strg, getDiscord(cfg))
			approved, err := listings.Approve(ctx, domain.ListingID(args[0]))
			if err != nil {
				logger.Fatal(ctx, "could not approve listing", zap.Error(err))
			}

			fmt.Printf("%s (%s) approved\n", approved.Username, approved.ID) //nolint: forbidigo
		},
	}

	return cmd
}
