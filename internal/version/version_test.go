// ABOUTME: Tests for version constants
// ABOUTME: Checks the identity fjplay reports in server/hello
package version

import (
	"regexp"
	"testing"
)

var semver = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionIsSemver(t *testing.T) {
	if !semver.MatchString(Version) {
		t.Errorf("Expected MAJOR.MINOR.PATCH version, got %q", Version)
	}
}

func TestProductIdentity(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"product", Product, "fjplay"},
		{"manufacturer", Manufacturer, "Forever Jukebox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %s %q, got %q", tt.name, tt.want, tt.got)
			}
		})
	}
}
