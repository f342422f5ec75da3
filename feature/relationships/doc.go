// Package relationships wires the relationship engine to its mirrors and
// exposes it over HTTP.
//
// # Engine
//
// The engine lives in the sub-packages and works on in-memory datasets only:
//   - compat: geographic and style compatibility scoring
//   - assign: capacity-constrained partitioning of artists across studios
//   - linker: re-derivation of the denormalized fields from the studio lists
//   - integrity: read-only validation of both reference directions
//   - repair: one analyze, fix and verify pass
//
// Every stage returns a new dataset and leaves its input untouched.
//
// # Service
//
// Service loads the canonical dataset from the configured source mirror, runs
// an engine operation and, for repair and rebuild, saves the result to the
// source followed by every replica. Writers are serialized with a mutex.
//
// Drift compares the relationship fields held by each replica with the source
// through core/reconcile and can republish the source to drifted replicas.
//
// # Routes
//
//	GET  /relationships/validate
//	GET  /relationships/report
//	POST /relationships/repair?dry_run=true
//	POST /relationships/rebuild?dry_run=true
//	GET  /relationships/drift
//	POST /relationships/drift
package relationships
