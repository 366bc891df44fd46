package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:8000"

// Config holds CLI configuration.
type Config struct {
	APIURL   string
	DBPath   string
	Language string
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	config := &Config{}

	// Load .env files first so env-based defaults work with flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.StringVar(&config.APIURL, "api", "", "Trip planner API base URL (or set PRECISELY_API_URL)")
	flag.StringVar(&config.DBPath, "db", "", "Path to local SQLite database (default: ~/.precisely/precisely.db)")
	flag.StringVar(&config.Language, "lang", "", "Preferred language for geocoding results (default: en)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("precisely %s\n", version)
		os.Exit(0)
	}

	if config.APIURL == "" {
		config.APIURL = os.Getenv("PRECISELY_API_URL")
	}
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")

	if config.Language == "" {
		config.Language = os.Getenv("PRECISELY_LANG")
	}
	if config.Language == "" {
		config.Language = "en"
	}

	if config.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".precisely")
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		config.DBPath = filepath.Join(configDir, "precisely.db")
	}

	return config, nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
