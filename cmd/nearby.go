package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/filtering"
	"github.com/karune-connect/matcher/internal/geo"
	"github.com/karune-connect/matcher/internal/logger"
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List needs within a radius of the profile location",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()

		s, err := newSession()
		if err != nil {
			log.Fatal(err)
		}
		defer s.close()

		if err := s.openSource(); err != nil {
			s.logger.Fatal("opening data source", zap.Error(err))
		}

		profileID, _ := cmd.Flags().GetString("profile-id")
		profile, err := s.resolveProfile(ctx, profileID)
		if err != nil {
			s.logger.Fatal("resolving profile", zap.Error(err))
		}
		log := logger.WithMatchFields(s.logger, "", profile.ID)

		maxKm, _ := cmd.Flags().GetFloat64("max-km")
		if maxKm <= 0 {
			log.Fatal("max-km must be positive", zap.Float64("max-km", maxKm))
		}

		all, err := s.source.ListNeeds(ctx)
		if err != nil {
			log.Fatal("listing needs", zap.Error(err))
		}

		if !profile.HasCoordinates() {
			log.Info("profile has no coordinates, returning every need")
		}

		calc := s.engine.Calculator()
		for _, n := range filtering.ByRadius(calc, all.Items, profile, maxKm) {
			fields := []zap.Field{
				zap.String(logger.FieldNeedID, n.ID),
				zap.String("city", n.ShelterCity),
			}
			if km, precision := calc.Resolve(profile.Location(), n.Location()); precision != geo.PrecisionUnknown {
				fields = append(fields, zap.Float64("distance_km", km), zap.Stringer("precision", precision))
			}
			log.Info(n.Title, fields...)
		}
	},
}

func init() {
	rootCmd.AddCommand(nearbyCmd)

	nearbyCmd.Flags().StringP("profile-id", "p", "", "profile whose location is the center. Asks interactively when unset.")
	nearbyCmd.Flags().Float64("max-km", 50, "radius in kilometers")
}
