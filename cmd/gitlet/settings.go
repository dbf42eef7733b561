package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tony-hsu/gitlet/pkg/logging"
)

const (
	keyLogLevel     = "log.level"
	keyLogFormat    = "log.format"
	keyLogOutput    = "log.output"
	keyLogFileSize  = "log.file_max_size_mb"
	keyLogFilesKeep = "log.files_keep"
)

// settings holds process-wide CLI settings resolved by viper from flags,
// GITLET_* environment variables and $HOME/.config/gitlet/config.toml.
type settings struct {
	v          *viper.Viper
	configFile string
}

func newSettings() *settings {
	v := viper.New()
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogFormat, "text")
	v.SetDefault(keyLogOutput, []string{"="})
	v.SetDefault(keyLogFileSize, 10)
	v.SetDefault(keyLogFilesKeep, 3)
	v.SetEnvPrefix("gitlet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &settings{v: v}
}

func (s *settings) bindFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&s.configFile, "config", "", "settings file (default is $HOME/.config/gitlet/config.toml)")
	flags.String("log-level", "warn", "log level: trace, debug, info, warn, error, none")
	flags.String("log-format", "text", "log format: text or json")
	flags.StringSlice("log-output", []string{"="}, `log outputs: "-" stdout, "=" stderr, or a file path`)

	_ = s.v.BindPFlag(keyLogLevel, flags.Lookup("log-level"))
	_ = s.v.BindPFlag(keyLogFormat, flags.Lookup("log-format"))
	_ = s.v.BindPFlag(keyLogOutput, flags.Lookup("log-output"))
}

// apply reads the settings file, if any, and configures logging.
func (s *settings) apply() error {
	if s.configFile != "" {
		s.v.SetConfigFile(s.configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		s.v.AddConfigPath(filepath.Join(home, ".config", "gitlet"))
		s.v.SetConfigType("toml")
		s.v.SetConfigName("config")
	}
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	if err := logging.SetLevel(s.v.GetString(keyLogLevel)); err != nil {
		return err
	}
	if err := logging.SetOutputFormat(s.v.GetString(keyLogFormat)); err != nil {
		return err
	}
	if err := logging.SetOutputs(s.v.GetStringSlice(keyLogOutput), s.v.GetInt(keyLogFileSize), s.v.GetInt(keyLogFilesKeep)); err != nil {
		return err
	}
	logging.Default().WithFields(logging.Fields{
		"file":      s.v.ConfigFileUsed(),
		"log_level": logging.Level(),
	}).Debug("settings loaded")
	return nil
}
