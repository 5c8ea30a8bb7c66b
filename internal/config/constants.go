package config

// Default locations and collaborator endpoints
const (
	// DefaultDatabaseFile is the database file name inside the data dir
	DefaultDatabaseFile = "library.db"

	// DefaultStorageDirName is the attachment tree name inside the data dir
	DefaultStorageDirName = "storage"

	DefaultCrossrefBaseURL = "https://api.crossref.org"
	DefaultArxivBaseURL    = "http://export.arxiv.org"

	// DefaultUserAgent identifies us to the Crossref API per their etiquette
	DefaultUserAgent = "Refbase/1.0 (https://github.com/refbase/refbase)"
)
