package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/cermat/internal/config"
)

// cfg and logger are set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cermat",
	Short: "Gamified CERMAT exam practice",
	Long:  "cermat: terminal app for practicing the Czech and math CERMAT entrance exams with lessons, XP, hearts and streaks.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c
		logger = c.Logger(os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CERMAT_DB env var)")
	rootCmd.PersistentFlags().String("store", "", fmt.Sprintf("Account store: %s or %s (overrides CERMAT_STORE)", config.StoreSQLite, config.StoreRedis))
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store (overrides CERMAT_REDIS_ADDR)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(potionCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlags lets command line flags win over the environment.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DBPath = p
	}
	if s, _ := cmd.Flags().GetString("store"); s != "" {
		c.Store = s
	}
	if a, _ := cmd.Flags().GetString("redis-addr"); a != "" {
		c.Redis.Addr = a
	}
}
