// ABOUTME: Version information for fjplay
// ABOUTME: Product identity reported to remote controllers and in logs
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the product name
	Product = "fjplay"

	// Manufacturer is the maintaining project
	Manufacturer = "Forever Jukebox"
)
