package version

// Version is the backtest engine version, set at build time with
// -ldflags "-X github.com/rxtech-lab/eod-backtest/internal/version.Version=v0.3.1".
// "main" marks a development build.
var Version = "main"

// GetVersion returns the engine version.
func GetVersion() string {
	return Version
}
