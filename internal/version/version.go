// Package version exposes the binary version injected at build time.
package version

// Overridden via -ldflags "-X .../internal/version.version=vX.Y.Z".
var version = "dev"

// Version returns the build version string.
func Version() string {
	return version
}
