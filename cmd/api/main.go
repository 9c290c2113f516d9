// Package main is the entry point for the contentguard API server: the
// content-security layer that scans conversational content, manages
// per-user content preferences, and provides encrypted storage with an
// audit trail.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hanachat/contentguard/internal/config"
	"github.com/hanachat/contentguard/internal/server"
	"github.com/hanachat/contentguard/internal/utils"
)

// Version information is set during build time through linker flags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// init loads environment variables from a .env file if present. Not
// finding one is non-fatal; configuration may come from other means.
func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("contentguard API Server\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Bootstrap logging before configuration is available
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override version from build if available
	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting contentguard API Server")

	utils.InitValidator()

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
