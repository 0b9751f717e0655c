package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every setting read from the environment (.env is loaded by
// main before Load is called).
type Config struct {
	Port       string
	AppEnv     string
	LogLevel   string
	CORSOrigin string

	// Storage
	StorageBackend        string // optional override: sheets, csv, mysql
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
	SheetID               string
	Worksheet             string
	CSVPath               string
	DatabaseDSN           string

	// Inventory behaviour
	NormalizeCase       string
	TrimSpaces          bool
	AllowDeleteFiltered bool
	RefreshSeconds      int
	BaseURL             string

	// Item images
	UploadDir string
	PublicURL string
}

// Load reads the configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port:       getEnv("PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		StorageBackend:        strings.ToLower(os.Getenv("STORAGE_BACKEND")),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleCredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
		SheetID:               os.Getenv("SHEET_ID"),
		Worksheet:             getEnv("WORKSHEET", "Inventario"),
		CSVPath:               getEnv("CSV_PATH", "inventario.csv"),
		DatabaseDSN:           os.Getenv("DB_DSN_PRIMARY"),

		NormalizeCase:       getEnv("NORMALIZE_CASE", "unchanged"),
		TrimSpaces:          getBool("TRIM_SPACES", true),
		AllowDeleteFiltered: getBool("ALLOW_DELETE_FILTERED", false),
		RefreshSeconds:      getInt("REFRESH_SECONDS", 5),
		BaseURL:             os.Getenv("BASE_URL"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		PublicURL: strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:"+getEnv("PORT", "8080")), "/"),
	}
}

// IsDevelopment reports whether the app runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

// HasSheetsCredentials reports whether the remote spreadsheet backend is
// configured at all. Reachability is checked separately at startup.
func (c Config) HasSheetsCredentials() bool {
	return c.SheetID != "" && (c.GoogleCredentialsFile != "" || c.GoogleCredentialsJSON != "")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
