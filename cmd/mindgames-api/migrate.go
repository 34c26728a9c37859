package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindgames-dev/mindgames/internal/logger"
	"github.com/mindgames-dev/mindgames/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		st, err := storage.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.Cleanup()

		n, err := st.Migrate(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Log.Info("migrations applied", "count", n, "dialect", st.Dialect().String())
		return nil
	},
}
