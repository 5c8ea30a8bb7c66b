package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Library
		Crossref
		Arxiv
		Log
	}

	Library struct {
		DataDir      string // Root for the database file and the storage tree
		DatabasePath string // Defaults to <data_dir>/library.db
		StorageDir   string // Defaults to <data_dir>/storage
	}
	Crossref struct {
		BaseURL   string
		UserAgent string
		Timeout   time.Duration
	}
	Arxiv struct {
		BaseURL string
		Timeout time.Duration
	}
	Log struct {
		Level string // zerolog level name: debug, info, warn, error
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("database_path", "")
	v.SetDefault("storage_dir", "")
	v.SetDefault("crossref_base_url", DefaultCrossrefBaseURL)
	v.SetDefault("crossref_user_agent", DefaultUserAgent)
	v.SetDefault("crossref_timeout", "10s")
	v.SetDefault("arxiv_base_url", DefaultArxivBaseURL)
	v.SetDefault("arxiv_timeout", "15s")
	v.SetDefault("log_level", "info")

	dataDir := v.GetString("DATA_DIR")
	databasePath := v.GetString("DATABASE_PATH")
	if databasePath == "" {
		databasePath = filepath.Join(dataDir, DefaultDatabaseFile)
	}
	storageDir := v.GetString("STORAGE_DIR")
	if storageDir == "" {
		storageDir = filepath.Join(dataDir, DefaultStorageDirName)
	}

	return &Config{
		Library: Library{
			DataDir:      dataDir,
			DatabasePath: databasePath,
			StorageDir:   storageDir,
		},
		Crossref: Crossref{
			BaseURL:   v.GetString("CROSSREF_BASE_URL"),
			UserAgent: v.GetString("CROSSREF_USER_AGENT"),
			Timeout:   v.GetDuration("CROSSREF_TIMEOUT"),
		},
		Arxiv: Arxiv{
			BaseURL: v.GetString("ARXIV_BASE_URL"),
			Timeout: v.GetDuration("ARXIV_TIMEOUT"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

// defaultDataDir places the library under the user's home directory,
// falling back to the working directory when home cannot be resolved.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.refbase"
	}
	return filepath.Join(home, ".refbase")
}
