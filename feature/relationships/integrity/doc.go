// Package integrity checks a dataset against the relationship invariants and
// reports every violation without changing anything.
//
// # Errors
//
//   - INVALID_STUDIO_REFERENCE: an artist's StudioRef points at a studio that
//     does not exist. Reported once per artist; the studio side is not
//     re-checked for that artist.
//   - MISSING_REVERSE_REFERENCE: the two sides disagree about membership.
//   - INVALID_ARTIST_REFERENCE: a studio lists an artist that does not exist.
//   - DUPLICATE_ASSIGNMENT: an artist is listed more than once. Reported once
//     per artist, replacing the per-studio reverse checks.
//
// # Warnings
//
// Stale caches (COUNT_MISMATCH, OUTDATED_STUDIO_NAME, OUTDATED_STUDIO_ADDRESS,
// OUTDATED_ARTIST_DETAILS), degradations (EMPTY_STUDIO, ORPHANED_ARTIST) and
// CAPACITY_EXCEEDED are warnings. A report with warnings only is still valid.
//
// Issues are emitted in a fixed order: artists in collection order, then
// studios in collection order.
package integrity
