// Package loader registers and mounts feature modules.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order and LoadAll mounts the
// enabled ones. The start command registers the relationships and integrity
// features.
package loader
