package cmd

import (
	"fmt"
	"os"

	"github.com/creativehub205/ladies-tailor-shop/config"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "tailor-shop",
	Short: "Ladies tailor shop backend",
	Long: `Backend for a ladies tailor shop. Keeps customers, their orders with
garment types, measurements and design images in a single SQLite file and
serves them to the shop's mobile app.

Settings come from config.yaml, TAILOR_* environment variables and the flags
below, in increasing order of precedence. For example:

  tailor-shop serve --db /var/lib/tailor/shop.db --uploads /var/lib/tailor/uploads
  tailor-shop tailor create -u meena -p secret1 -s "Meena Boutique"
  tailor-shop clear orders --yes`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogging(log, logLevel, logFormat); err != nil {
			return err
		}
		return config.InitConfig(cfgFile)
	},
}

// Execute runs the command line; errors exit with status 1
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml, ./config/config.yaml or /etc/tailor-shop/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "json", "log format (json, text)")
	flags.String("db", "", "SQLite database file (overrides database.path)")
	flags.String("uploads", "", "design image directory (overrides storage.upload_dir)")

	// Unset flags leave config and environment values in place.
	_ = viper.BindPFlag("database.path", flags.Lookup("db"))
	_ = viper.BindPFlag("storage.upload_dir", flags.Lookup("uploads"))
}

// configureLogging applies the level and format flags to log
func configureLogging(log *logrus.Logger, level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid --log-level %q", level)
	}
	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("invalid --log-format %q, want json or text", format)
	}

	log.SetOutput(os.Stderr)
	return nil
}
