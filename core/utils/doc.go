// Package utils holds loose conversion helpers, mostly for decoding values
// read back from Redis hashes and raw SQL scans.
package utils
