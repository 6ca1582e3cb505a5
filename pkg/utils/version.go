// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build metadata, overridden at link time with
// -ldflags "-X github.com/papercomputeco/askstream/pkg/utils.Version=...".
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// UserAgent identifies askstream to chat endpoints.
func UserAgent() string {
	return "askstream/" + Version
}
