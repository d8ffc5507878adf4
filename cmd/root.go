package cmd

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/karune-connect/matcher/internal/api"
	"github.com/karune-connect/matcher/internal/filtering"
)

const (
	app = "karune-matcher"
)

type Config struct {
	Source *SourceConfig     `mapstructure:"source"`
	Tables *TablesConfig     `mapstructure:"tables"`
	Filter *filtering.Config `mapstructure:"filter"`
	Server *ServerConfig     `mapstructure:"server"`
	AI     *AIConfig         `mapstructure:"ai"`
}

type SourceConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// TablesConfig points at YAML overrides for the built-in lookup tables.
type TablesConfig struct {
	Centroids string `mapstructure:"centroids"`
	Skills    string `mapstructure:"skills"`
}

type ServerConfig struct {
	Addr             string `mapstructure:"addr"`
	api.RouterConfig `mapstructure:",squash"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "karune-matcher ranks shelter needs for sponsors and volunteers",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is optional.
	_ = godotenv.Load()

	if err := viper.BindEnv("source.path", "KARUNE_SOURCE_PATH"); err != nil {
		log.Fatalf("binding KARUNE_SOURCE_PATH environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is karune-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("source.driver", "file")
	viper.SetDefault("source.path", "dataset.json")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.max-retries", 2)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Without a config file the defaults and environment apply. A broken file is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Source == nil {
		config.Source = &SourceConfig{}
	}
	if config.Tables == nil {
		config.Tables = &TablesConfig{}
	}
	if config.Filter == nil {
		config.Filter = &filtering.Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	return config, nil
}
