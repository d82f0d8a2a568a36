package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gettext-scanner/internal/parser"
	"gettext-scanner/internal/textutil"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Root                   string
	ScanPath               string
	POFilesPath            string
	DataDir                string
	FileExtensions         []string
	Functions              []string
	SourceLocale           string
	GoogleTranslateEnabled bool
	DatabaseURL            string
	Neo4jURI               string
	Neo4jUser              string
	Neo4jPassword          string
	WorkerCount            int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	functions := textutil.SplitList(getEnv("GETTEXT_FUNCTIONS", ""))
	if len(functions) == 0 {
		functions = append([]string(nil), parser.DefaultFunctions...)
	}

	return &Config{
		Root:                   getEnv("GETTEXT_ROOT", "."),
		ScanPath:               getEnv("GETTEXT_SCAN_PATH", "lib"),
		POFilesPath:            getEnv("GETTEXT_PO_FILES_PATH", "priv/gettext"),
		DataDir:                getEnv("GETTEXT_DATA_DIR", "data"),
		FileExtensions:         textutil.SplitList(getEnv("GETTEXT_FILE_EXTENSIONS", "")),
		Functions:              functions,
		SourceLocale:           getEnv("GETTEXT_SOURCE_LOCALE", "en"),
		GoogleTranslateEnabled: getEnvBool("GOOGLE_TRANSLATE_ENABLED", false),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		Neo4jURI:               getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:              getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:          getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:            getEnvInt("WORKER_COUNT", 4),
	}
}

// Resolve joins p onto Root unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
