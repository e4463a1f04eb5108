package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/eod-backtest/pkg/errors"
)

const devVersion = "main"

// CheckCompatibility reports whether a configuration written for required
// can run on engine. Major and minor versions must match; patch versions may
// differ. A "main" development build on either side skips the check.
func CheckCompatibility(engine, required string) error {
	engine = strings.TrimPrefix(engine, "v")
	required = strings.TrimPrefix(required, "v")

	if engine == devVersion || required == devVersion {
		return nil
	}

	engineSemver, err := semver.NewVersion(engine)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid engine version '%s'", engine)
	}

	requiredSemver, err := semver.NewVersion(required)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid required version '%s'", required)
	}

	if engineSemver.Major() != requiredSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), requiredSemver.Major())
	}

	if engineSemver.Minor() != requiredSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "minor version mismatch: engine is %d.%d.x but config requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			requiredSemver.Major(), requiredSemver.Minor())
	}

	return nil
}
