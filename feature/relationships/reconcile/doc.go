// Package reconcile adapts the relationship mirrors to the generic drift
// engine in core/reconcile.
//
// Each artist and studio becomes one entity keyed "artist:<id>" or
// "studio:<id>". Only relationship fields are compared: the artist's
// studioRef and the studio's artists, artistCount, artistDetails and
// specialties.
//
// Mirrors only support whole-dataset replacement, so any planned action on a
// replica republishes the canonical dataset to it once.
package reconcile
