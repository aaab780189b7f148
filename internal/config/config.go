package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment. A .env file
// in the working directory is loaded first when present, so local development
// does not need exported variables.
type Config struct {
	Port string

	GithubToken string
	RepoOwner   string
	RepoName    string
	Branch      string

	GoogleAPIKey string
	GenAIModel   string
	PersonasPath string

	AdminToken    string
	WebhookSecret string

	ImageHostURL string
	ImageHostKey string

	SQLitePath string
	CacheTTL   time.Duration
}

// Load reads configuration from the environment. It fails fast on anything
// required for serving content; optional integrations degrade instead.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		GithubToken:   os.Getenv("GITHUB_TOKEN"),
		Branch:        getEnv("GITHUB_BRANCH", "master"),
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		GenAIModel:    getEnv("GENAI_MODEL", "gemini-2.0-flash"),
		PersonasPath:  os.Getenv("PERSONAS_PATH"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		ImageHostURL:  os.Getenv("IMAGE_HOST_URL"),
		ImageHostKey:  os.Getenv("IMAGE_HOST_KEY"),
		SQLitePath:    getEnv("SQLITE_DB_PATH", "./cheerfactory.db"),
	}

	owner, name, err := splitRepo(os.Getenv("GITHUB_REPO"))
	if err != nil {
		return Config{}, err
	}
	cfg.RepoOwner = owner
	cfg.RepoName = name

	ttl, err := ttlSeconds(os.Getenv("CACHE_TTL_SECONDS"))
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL = ttl

	if cfg.GithubToken == "" {
		return Config{}, fmt.Errorf("GITHUB_TOKEN is required")
	}
	if cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("ADMIN_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return "", "", fmt.Errorf("GITHUB_REPO is required")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("GITHUB_REPO must be owner/name, got %q", repo)
	}
	return parts[0], parts[1], nil
}

func ttlSeconds(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 60 * time.Second, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("CACHE_TTL_SECONDS must be a positive integer, got %q", raw)
	}
	return time.Duration(secs) * time.Second, nil
}
