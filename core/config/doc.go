// Package config provides configuration management for the relationship manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, timeouts)
//   - Storage: MinIO credentials and the fixture bucket
//   - Log: Logging level and format
//   - Database: document store driver and connection details
//   - Search: Redis search index address and key prefix
//   - Relationships: capacity bounds, rules file, source and mirrors
//
// Nested keys map to upper-case environment variables joined by underscores,
// e.g. relationships.max_artists_per_studio is RELATIONSHIPS_MAX_ARTISTS_PER_STUDIO.
// List values such as RELATIONSHIPS_MIRRORS are comma separated.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Relationships.Source)
package config
