package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	GitHub      GitHubConfig
	Leaderboard LeaderboardConfig
	Enrichment  EnrichmentConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type GitHubConfig struct {
	// WebhookSecret is the shared secret used to verify X-Hub-Signature.
	WebhookSecret string
	// Token is the bearer token for outbound GitHub API lookups.
	Token string
}

type LeaderboardConfig struct {
	// AcceptanceTopic marks a repository as eligible for scoring.
	AcceptanceTopic string
	// IssueOpeningPoints is granted once an issue carries a feature label.
	IssueOpeningPoints int
	// MergePoints is the bonus granted when a pull request is merged.
	MergePoints int
}

type EnrichmentConfig struct {
	TimeoutSeconds int
	Workers        int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./gitkudos.db"),
		},
		GitHub: GitHubConfig{
			WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
			Token:         getEnv("GITHUB_TOKEN", ""),
		},
		Leaderboard: LeaderboardConfig{
			AcceptanceTopic:    getEnv("ACCEPTANCE_TOPIC", "contributions-accepted"),
			IssueOpeningPoints: getEnvAsInt("ISSUE_OPENING_POINTS", 10),
			MergePoints:        getEnvAsInt("MERGE_POINTS", 10),
		},
		Enrichment: EnrichmentConfig{
			TimeoutSeconds: getEnvAsInt("ENRICHMENT_TIMEOUT", 10),
			Workers:        getEnvAsInt("ENRICHMENT_WORKERS", 1),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
