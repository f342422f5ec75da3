// Package mirror persists the artist and studio collections.
//
// Each store the dataset is published to is a Mirror:
//
//   - file: the client-side JSON fixture on local disk
//   - bucket: the same fixture as an object in MinIO/S3
//   - documents: the artists and studios tables (GORM, MySQL or SQLite)
//   - index: Redis hashes backing the public search
//
// Every mirror stores records verbatim. Save replaces the whole dataset and
// Load returns it in the order it was saved. Open picks a mirror by source
// name so the CLI and the HTTP service can be pointed at any of them.
package mirror
