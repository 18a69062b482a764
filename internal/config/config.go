package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/projecthub-dashboard/internal/persist"
)

// Persistence backends for the layout blob.
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
)

type Config struct {
	ProjectID      string
	LogLevel       string
	Port           string
	PersistBackend string
	SQLitePath     string
	DatabaseURL    string
	LayoutBlobName string

	// local development only
	AuthDisabled bool
	DevUID       string
	DevRole      string
	DevTenant    string
}

// New reads the configuration from the environment. A .env file in the working
// directory, when present, is loaded first and never overrides variables already set.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:      os.Getenv("PROJECTID"),
		LogLevel:       os.Getenv("LOGLEVEL"),
		Port:           getEnv("PORT", "8080"),
		PersistBackend: strings.ToLower(getEnv("PERSISTBACKEND", BackendMemory)),
		SQLitePath:     getEnv("SQLITEPATH", "dashboard.db"),
		DatabaseURL:    os.Getenv("DATABASEURL"),
		LayoutBlobName: getEnv("LAYOUTBLOBNAME", persist.DefaultLayoutsBlob),
		AuthDisabled:   getBool("AUTHDISABLED"),
		DevUID:         getEnv("DEVUID", "dev-user"),
		DevRole:        getEnv("DEVROLE", "student"),
		DevTenant:      os.Getenv("DEVTENANT"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
