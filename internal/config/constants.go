package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./libraryhub.db"

	// DefaultOpenLibraryBaseURL is the base URL of the catalog lookup service
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"

	// DefaultUserAgent identifies us to OpenLibrary as their API policy requires
	DefaultUserAgent = "LibraryHub/1.0 (https://github.com/libraryhub/libraryhub)"
)
