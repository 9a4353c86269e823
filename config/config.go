// Package config exposes process configuration for the blog, read once at
// startup from the environment (optionally seeded from a .env file and a
// blog.toml override file).
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// fileOverrides mirrors the optional blog.toml file. Values present there
// take precedence over environment variables.
type fileOverrides struct {
	Listen        string `toml:"listen"`
	Port          int    `toml:"port"`
	DBFolder      string `toml:"dbFolder"`
	LogFolder     string `toml:"logFolder"`
	SessionMaxAge int    `toml:"sessionMaxAge"`
}

var overrides fileOverrides

func init() {
	_ = godotenv.Load()
	loadOverrides("blog.toml")
}

func loadOverrides(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := toml.Unmarshal(data, &overrides); err != nil {
		fmt.Fprintf(os.Stderr, "ignoring malformed %s: %v\n", path, err)
		overrides = fileOverrides{}
	}
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("BLOG_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("BLOG_DEBUG") == "true"
}

func GetListen() string {
	if overrides.Listen != "" {
		return overrides.Listen
	}
	return os.Getenv("BLOG_LISTEN")
}

func GetPort() int {
	if overrides.Port > 0 {
		return overrides.Port
	}
	port, err := strconv.Atoi(os.Getenv("BLOG_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func GetDBFolderPath() string {
	if overrides.DBFolder != "" {
		return overrides.DBFolder
	}
	dbFolderPath := os.Getenv("BLOG_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	if overrides.LogFolder != "" {
		return overrides.LogFolder
	}
	logFolderPath := os.Getenv("BLOG_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetSessionMaxAge returns the session lifetime in seconds.
func GetSessionMaxAge() int {
	if overrides.SessionMaxAge > 0 {
		return overrides.SessionMaxAge
	}
	maxAge, err := strconv.Atoi(os.Getenv("BLOG_SESSION_MAX_AGE"))
	if err != nil || maxAge <= 0 {
		return 3600
	}
	return maxAge
}

// GetSessionSecret returns the cookie signing secret, empty when not set.
// The web server generates a per-boot random secret in that case.
func GetSessionSecret() string {
	return os.Getenv("BLOG_SESSION_SECRET")
}

// GetAdminUsername returns the configured admin account name, "admin" when unset.
func GetAdminUsername() string {
	username := strings.TrimSpace(os.Getenv("BLOG_ADMIN_USERNAME"))
	if username == "" {
		return "admin"
	}
	return username
}

// GetAdminPassword returns the configured admin password. A blank value is a
// fatal configuration error, enforced by the auth service at startup.
func GetAdminPassword() string {
	return strings.TrimSpace(os.Getenv("BLOG_ADMIN_PASSWORD"))
}
