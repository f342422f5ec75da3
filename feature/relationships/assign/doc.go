// Package assign partitions artists across studios from scratch.
//
// # Passes
//
// The main pass walks studios in input order. Each studio takes its share of
// the still-unassigned artists it is compatible with, best score first. How
// many it takes is decided by a TargetPolicy; the default gives each remaining
// studio an even share of the pool, clamped to the studio's capacity.
//
// Artists left over after the main pass go through a fallback pass that drops
// the style requirement but keeps geography, then a last-resort pass that drops
// geography too. Both passes pick the least-loaded studio under capacity, ties
// going to the lowest StudioID.
//
// # Degradation
//
// When artists are scarce some studios stay empty, and when every studio is
// full some artists stay unassigned. Both are reported in Result rather than
// treated as errors.
//
// Assign only fills the Studio.Artists lists and Specialties. Run the linker
// afterwards to derive StudioRef, ArtistCount and ArtistDetails.
package assign
