// Package version reports the fluxkit build version.
//
// Version, commit, branch and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/fluxkit/version.Version=1.0.0"
package version
