// Package models defines the artist and studio records shared by every stage
// of the relationship engine and by the storage mirrors.
//
// An Artist optionally carries a StudioRef, a denormalized copy of the studio
// it belongs to. A Studio carries the authoritative Artists list plus two caches
// derived from it: ArtistCount and ArtistDetails. The engine keeps both sides
// consistent; mirrors persist them verbatim.
//
// Dataset bundles both collections. Engine stages never mutate a Dataset they
// receive; they work on Clone() and return the copy.
package models
