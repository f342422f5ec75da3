// Package integrity checks the infrastructure behind the dataset mirrors.
//
// The relationships package validates the dataset itself; this package
// validates the places it is published to.
//
// # Checks Provided
//
//   - Structure: the fixture bucket and the folder holding the fixture object exist.
//   - Fixtures: the fixture file and fixture object exist and decode.
//   - Schema: the document store tables carry the expected columns and types.
//   - Index: the search index answers and how many entities it holds.
//
// Checks whose connection is not configured are reported as skipped.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/fixtures : Runs fixture check.
//   - GET /integrity/schema : Runs document schema check.
//   - GET /integrity/index : Runs search index check.
package integrity
