package fbs

var (
	// Version of fbs, set with ldflags during build.
	Version = "v0.1.0"
	// Build timestamp, set with ldflags during build.
	Build = "n/a"
)
