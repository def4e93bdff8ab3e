// Package update provides the launcher's update decision and fetch machinery.
//
// This package handles:
//   - Querying the release feed for the latest release
//   - Selecting the release asset for the running platform
//   - Comparing semantic versions to classify the installed state
//   - Persisting the installed version marker
//   - Streaming an asset to disk while publishing progress
//
// The package is isolated from UI concerns. It returns structured data
// (Release, Decision, ProgressSnapshot) that callers present however they want.
//
// Example usage:
//
//	resolver := update.NewResolver(update.DefaultFeedURL)
//	release, err := resolver.FetchLatest(ctx)
//	if err != nil {
//	    release = nil // feed unavailable: no update
//	}
//	installed, _ := update.NewStore("version").Load()
//	switch update.Decide(installed, release) {
//	case update.DecisionNotInstalled, update.DecisionUpdateAvailable:
//	    // offer the install
//	}
package update
