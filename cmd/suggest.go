package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/completeness"
	"github.com/karune-connect/matcher/internal/logger"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Check profile completeness and list what to fill in",
	Run: func(cmd *cobra.Command, _ []string) {
		s, err := newSession()
		if err != nil {
			log.Fatal(err)
		}
		defer s.close()

		if err := s.openSource(); err != nil {
			s.logger.Fatal("opening data source", zap.Error(err))
		}

		profileID, _ := cmd.Flags().GetString("profile-id")
		profile, err := s.resolveProfile(context.Background(), profileID)
		if err != nil {
			s.logger.Fatal("resolving profile", zap.Error(err))
		}

		roleFlag, _ := cmd.Flags().GetString("role")
		role := roleFor(roleFlag, profile)

		logger.WithMatchFields(s.logger, string(role), profile.ID).Info("profile completeness",
			zap.Bool("complete", completeness.IsComplete(profile, role)),
			zap.Strings("suggestions", completeness.Suggestions(profile, role)),
		)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().StringP("profile-id", "p", "", "profile to check. Asks interactively when unset.")
	suggestCmd.Flags().StringP("role", "r", "", "role to check against (sponsor, volunteer). Defaults to the profile role.")
}
