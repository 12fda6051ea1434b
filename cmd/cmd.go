package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "epic-crm",
	Short:         "Epic Events CRM",
	Long:          `Manage the clients, contracts and events of Epic Events from the command line.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the command line. Application errors are printed as they
// are; anything else is reported on the event bus first.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(report(cmd, err))
}

func report(cmd *cobra.Command, err error) int {
	if appErr, ok := internal.AsAppError(err); ok && appErr.Type != internal.ErrorTypeInternal {
		fmt.Fprintln(os.Stderr, "Error:", appErr.GetDetailedMessage())
		return 1
	}
	if !running {
		// cobra rejected the command line before anything ran
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	lg := logger.LoggerWrapper()
	var publisher events.Publisher
	if current != nil {
		publisher = current.Bus
	} else {
		bus := events.NewEventBus(lg)
		events.RegisterLogSink(bus, lg)
		publisher = bus
	}
	events.Emit(context.Background(), publisher, lg, events.NewUnexpectedErrorEvent(cmd.CommandPath(), err))

	fmt.Fprintln(os.Stderr, "Unexpected error:", err)
	return 1
}

func loadConfig(path string) (*internal.Config, error) {
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("database.driver", internal.DriverSQLite)
	v.SetDefault("database.source", "epic.db?_foreign_keys=on")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("security.access_token_duration", 12*time.Hour)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("security.token_file", ".epic-token")
	v.SetDefault("observability.logging.level", "warn")
	v.SetDefault("observability.logging.format", "text")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yml")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(userCmd, clientCmd, contractCmd, eventCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(initDBCmd, migrateCmd, seedCmd, httpServerCmd)
}
