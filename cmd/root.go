package cmd

import (
	"context"
	"fmt"
	"os"

	"reelmatch/internal/app"
	"reelmatch/internal/config"
	"reelmatch/internal/store"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reelmatch",
	Short: "ReelMatch video service recommender",
	Long: `ReelMatch turns a free-text description of a video need into a shortlist
of services from a fixed catalog, using an AI provider with a keyword fallback.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			log.SetLevel(lvl)
		} else {
			log.Warnf("Unknown log level %q, keeping %s", cfg.Log.Level, log.GetLevel())
		}

		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			return appInstance.Close()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(costCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and AI provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking database connectivity...")
		if err := appInstance.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println(color.GreenString("Database connection successful."))

		cs := appInstance.CompletionService
		status := color.YellowString(cs.Status().String())
		if cs.Status() == store.ProviderStatusActive {
			status = color.GreenString(cs.Status().String())
		}
		fmt.Printf("AI provider: %s (model %q) is %s\n", cs.Name(), cs.ModelName(), status)

		jobs := color.YellowString("disabled")
		if appInstance.JobService.Enabled() {
			jobs = color.GreenString("enabled")
		}
		fmt.Printf("Background jobs: %s\n", jobs)
		return nil
	},
}
