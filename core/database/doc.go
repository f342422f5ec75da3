// Package database connects to the relationship document store and inspects
// its schema.
//
// Connect wraps GORM and supports two drivers: mysql for deployments and
// sqlite for local runs and tests. The inspector helpers back the document
// schema integrity check.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("document store: %w", err)
//	}
//
//	missing, err := database.MissingColumns(db, "artists", []string{"artist_id", "styles"})
package database
