// Package repair fixes relationship inconsistencies in a single
// analyze, fix, verify pass.
//
// # Fixes
//
// Fixes are applied in this order on a copy of the input:
//
//  1. Dangling IDs (studio entries with no matching artist) are dropped.
//  2. Duplicate assignments are collapsed to one owner. The studio the artist
//     references keeps it when that studio is among the owners; otherwise the
//     owner with the highest compatibility score keeps it, ties going to the
//     lowest StudioID.
//  3. Orphaned artists are attached to the least-loaded compatible studio with
//     room, falling back to geography alone.
//  4. Empty studios take one artist from a donor studio holding more than
//     Config.DonorThreshold artists.
//
// Steps 3 and 4 repeat until neither makes progress, since moving an artist out
// of a full donor can make room for an orphan. Finally the denormalized fields
// are re-derived and the result is validated.
//
// Repair never fails. Anything it cannot fix is left in the residual
// validation attached to the Report. Running Repair on its own output yields an
// empty Report and an identical dataset.
package repair
