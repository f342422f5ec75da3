// Package linker derives the denormalized relationship fields from the
// authoritative Studio.Artists lists.
//
// Synchronize rebuilds StudioRef on every artist and ArtistCount plus
// ArtistDetails on every studio. It never changes who belongs where.
package linker
