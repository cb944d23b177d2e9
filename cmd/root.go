package cmd

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configFiles    []string
	level, version string

	log = zap.NewNop()
	fs  = afero.NewOsFs()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "tsync",
	Short:         "Generate TypeScript declarations from #[tsync] Rust items",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&level, "level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", []string{}, "config file(s) - multiple config files are merged with last specified file having highest priority")
}

// newLogger builds the stderr console logger used for diagnostics.
func newLogger(lvl string) (*zap.Logger, error) {
	zl, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "parse log level"), "use one of debug, info, warn, error")
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.DisableCaller = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config.Build()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	l, err := newLogger(level)
	if err != nil {
		pterm.Warning.Printf("%v, falling back to info\n", err)
		l, _ = newLogger("info")
	}
	log = l

	if len(configFiles) > 0 {
		// Use config file from the flag.
		viper.SetConfigFile(configFiles[0])
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("tsync")
	}

	viper.SetEnvPrefix("TSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug("using config file(s)", zap.String("config", viper.ConfigFileUsed()))
	} else if len(configFiles) > 0 {
		log.Warn("unable to use config file(s)", zap.Error(err), zap.String("config", viper.ConfigFileUsed()))
	}
	if len(configFiles) > 1 {
		for _, file := range configFiles[1:] {
			configBytes, err := afero.ReadFile(fs, file)
			if err != nil {
				log.Warn("failed to read config file", zap.Error(err), zap.String("file", file))
				continue
			}
			if err = viper.MergeConfig(bytes.NewReader(configBytes)); err != nil {
				log.Warn("failed to merge config file", zap.Error(err), zap.String("file", file))
			} else {
				log.Debug("merged config file", zap.String("file", file))
			}
		}
	}
	if len(version) > 0 {
		viper.Set("version", version)
	}
}
