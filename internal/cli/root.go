// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

// Package cli implements the kramerius command tree.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/digitallib/kramerius-go/kramerius"
)

var (
	flagConfigFile string
	flagEnvFile    string
	flagVerbose    bool

	flagHost         string
	flagKeycloakHost string
	flagClientID     string
	flagClientSecret string
	flagUsername     string
	flagPassword     string
	flagTimeout      int
	flagMaxRetries   int
	flagRetryTimeout int

	rootCfg kramerius.Config
	rootLog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kramerius",
	Short: "Manage a Kramerius v7 digital library instance",
	Long: `kramerius talks to the Kramerius v7 REST API: search the index,
fetch item datastreams, plan and watch admin processes, manage
licenses and follow the SDNNT register synchronization.

Connection settings come from flags, a YAML config file (--config),
the K7_* environment variables or a .env file, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigFile, "config", "", "path to a YAML config file")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "dotenv file to load before reading K7_* variables")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	pf.StringVar(&flagHost, "host", "", "Kramerius base URL")
	pf.StringVar(&flagKeycloakHost, "keycloak-host", "", "Keycloak base URL")
	pf.StringVar(&flagClientID, "client-id", "", "OAuth client id")
	pf.StringVar(&flagClientSecret, "client-secret", "", "OAuth client secret")
	pf.StringVar(&flagUsername, "username", "", "Keycloak username")
	pf.StringVar(&flagPassword, "password", "", "Keycloak password")
	pf.IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds")
	pf.IntVar(&flagMaxRetries, "max-retries", 0, "retry budget for transient failures")
	pf.IntVar(&flagRetryTimeout, "retry-timeout", 0, "pause between retries in seconds")
}

// fileConfig is the YAML shape of --config.
type fileConfig struct {
	Host               string `yaml:"host"`
	KeycloakHost       string `yaml:"keycloak_host"`
	ClientID           string `yaml:"client_id"`
	ClientSecret       string `yaml:"client_secret"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	Timeout            int    `yaml:"timeout"`
	MaxRetries         int    `yaml:"max_retries"`
	RetryTimeout       int    `yaml:"retry_timeout"`
	PageSize           int    `yaml:"page_size"`
	MaxActiveProcesses int    `yaml:"max_active_processes"`
	TokenCachePath     string `yaml:"token_cache_path"`
}

// setup resolves configuration and the logger for the invoked command.
// Flags win over the config file, which wins over the environment.
func setup() error {
	// Missing default .env is fine; an explicitly named one is not.
	if err := godotenv.Load(flagEnvFile); err != nil && flagEnvFile != ".env" {
		return fmt.Errorf("loading %s: %w", flagEnvFile, err)
	}

	cfg := kramerius.Config{
		Host:         flagHost,
		KeycloakHost: flagKeycloakHost,
		ClientID:     flagClientID,
		ClientSecret: flagClientSecret,
		Username:     flagUsername,
		Password:     flagPassword,
		Timeout:      time.Duration(flagTimeout) * time.Second,
		MaxRetries:   flagMaxRetries,
		RetryTimeout: time.Duration(flagRetryTimeout) * time.Second,
	}

	if flagConfigFile != "" {
		fc, err := loadConfigFile(flagConfigFile)
		if err != nil {
			return err
		}
		mergeFileConfig(&cfg, fc)
	}
	cfg.ApplyEnv()

	log, err := newLogger(flagVerbose)
	if err != nil {
		return err
	}
	cfg.Logger = log

	rootCfg = cfg
	rootLog = log
	return nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fc, nil
}

func mergeFileConfig(cfg *kramerius.Config, fc *fileConfig) {
	if cfg.Host == "" {
		cfg.Host = fc.Host
	}
	if cfg.KeycloakHost == "" {
		cfg.KeycloakHost = fc.KeycloakHost
	}
	if cfg.ClientID == "" {
		cfg.ClientID = fc.ClientID
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = fc.ClientSecret
	}
	if cfg.Username == "" {
		cfg.Username = fc.Username
	}
	if cfg.Password == "" {
		cfg.Password = fc.Password
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Duration(fc.Timeout) * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = fc.MaxRetries
	}
	if cfg.RetryTimeout == 0 {
		cfg.RetryTimeout = time.Duration(fc.RetryTimeout) * time.Second
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = fc.PageSize
	}
	if cfg.MaxActiveProcesses == 0 {
		cfg.MaxActiveProcesses = fc.MaxActiveProcesses
	}
	if cfg.TokenCachePath == "" {
		cfg.TokenCachePath = fc.TokenCachePath
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// newClient builds a client from the resolved configuration.
func newClient() (*kramerius.Client, error) {
	client, err := kramerius.New(rootCfg)
	if err != nil {
		return nil, fmt.Errorf("%s", kramerius.RedactSecrets(err.Error(), rootCfg))
	}
	return client, nil
}

// Execute runs the command tree. Errors are printed with credential
// material redacted.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", kramerius.RedactSecrets(err.Error(), rootCfg))
		os.Exit(1)
	}
}
