package update

// Decision classifies the installed version against the latest release.
type Decision int

const (
	// DecisionNoRemoteAvailable means the feed could not be fetched or its tag
	// did not parse.
	DecisionNoRemoteAvailable Decision = iota
	// DecisionUpToDate means the installed version is at or above the release.
	DecisionUpToDate
	// DecisionUpdateAvailable means the installed version is below the release.
	DecisionUpdateAvailable
	// DecisionNotInstalled means nothing is installed and the release parses.
	DecisionNotInstalled
)

// String returns the string representation of a Decision.
func (d Decision) String() string {
	switch d {
	case DecisionUpToDate:
		return "up-to-date"
	case DecisionUpdateAvailable:
		return "update-available"
	case DecisionNotInstalled:
		return "not-installed"
	default:
		return "no-remote-available"
	}
}

// NeedsInstall reports whether the decision leads to the install/update flow.
func (d Decision) NeedsInstall() bool {
	return d == DecisionUpdateAvailable || d == DecisionNotInstalled
}

// Decide compares the installed version (zero when not installed) with the
// remote release (nil when the feed was unavailable). It performs no I/O.
func Decide(installed Version, remote *Release) Decision {
	if remote == nil {
		return DecisionNoRemoteAvailable
	}
	latest, err := remote.Version()
	if err != nil {
		return DecisionNoRemoteAvailable
	}
	if installed.IsZero() {
		return DecisionNotInstalled
	}
	if installed.LessThan(latest) {
		return DecisionUpdateAvailable
	}
	return DecisionUpToDate
}
