package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/karune-connect/matcher/internal/logger"
	"github.com/karune-connect/matcher/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a JSON or YAML dataset into a SQLite database",
	Run: func(cmd *cobra.Command, _ []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), zap.String("app", app))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
		defer logger.Sync()

		src, err := store.NewFileSource(from)
		if err != nil {
			logger.Fatal("reading dataset", zap.String("path", from), zap.Error(err))
		}

		db, err := store.NewSQLite(to)
		if err != nil {
			logger.Fatal("opening sqlite", zap.String("path", to), zap.Error(err))
		}
		defer db.Close()

		needCount, profileCount, err := db.Import(context.Background(), src)
		if err != nil {
			logger.Fatal("importing dataset", zap.Error(err))
		}

		logger.Info("dataset imported",
			zap.String("from", from),
			zap.String("to", to),
			zap.Int("needs", needCount),
			zap.Int("profiles", profileCount),
		)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("from", "dataset.json", "dataset file (.json, .yaml or .yml)")
	importCmd.Flags().String("to", "karune.db", "sqlite database path")
}
