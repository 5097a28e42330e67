package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/berfenger/salus2mqtt/internal/config"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "salus2mqtt",
	Short: "Salus iT600 gateway to MQTT bridge",
	Long: `salus2mqtt polls a Salus iT600 universal gateway over its encrypted local API
and mirrors thermostats, switches, covers and sensors to MQTT, with optional
Home Assistant discovery.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (env: CONFIG_FILE)")
}

func main() {
	rootCmd.Version = versioninfo.Short()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	v := viper.New()
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	}
	cfg, err := config.Load(v)
	if err != nil {
		slog.Error("config errors", "error", err)
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zap.Must(zapCfg.Build())
}

func safePrintConfig(cfg config.Config) {
	slog.Info("Using", "config", cfg.Redacted())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("salus2mqtt %s\n", versioninfo.Short())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
