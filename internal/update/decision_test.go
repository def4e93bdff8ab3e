package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustVersion(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	require.NoError(t, err)
	return v
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		remote    *Release
		want      Decision
	}{
		{"no remote", "1.0.0", nil, DecisionNoRemoteAvailable},
		{"no remote and not installed", "", nil, DecisionNoRemoteAvailable},
		{"unparseable tag", "1.0.0", &Release{TagName: "latest"}, DecisionNoRemoteAvailable},
		{"unparseable tag not installed", "", &Release{TagName: "latest"}, DecisionNoRemoteAvailable},
		{"not installed", "", &Release{TagName: "2.0.0"}, DecisionNotInstalled},
		{"equal", "1.0.0", &Release{TagName: "1.0.0"}, DecisionUpToDate},
		{"equal with v prefix", "1.0.0", &Release{TagName: "v1.0.0"}, DecisionUpToDate},
		{"remote older", "1.5.0", &Release{TagName: "1.4.0"}, DecisionUpToDate},
		{"remote newer", "1.0.0", &Release{TagName: "1.0.1"}, DecisionUpdateAvailable},
		{"prerelease to release", "2.0.0-rc.1", &Release{TagName: "2.0.0"}, DecisionUpdateAvailable},
		{"release vs prerelease", "2.0.0", &Release{TagName: "2.0.0-rc.1"}, DecisionUpToDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var installed Version
			if tt.installed != "" {
				installed = mustVersion(t, tt.installed)
			}
			assert.Equal(t, tt.want, Decide(installed, tt.remote))
		})
	}
}

func TestDecideMatchesOrdering(t *testing.T) {
	versions := []string{"0.1.0", "1.0.0-alpha", "1.0.0", "1.0.1", "1.2.0", "2.0.0-beta.2", "2.0.0-beta.11", "2.0.0"}

	for _, a := range versions {
		for _, b := range versions {
			installed := mustVersion(t, a)
			got := Decide(installed, &Release{TagName: b})
			if installed.LessThan(mustVersion(t, b)) {
				assert.Equal(t, DecisionUpdateAvailable, got, "%s -> %s", a, b)
			} else {
				assert.Equal(t, DecisionUpToDate, got, "%s -> %s", a, b)
			}
		}
	}
}

func TestDecideNotInstalledNeverUpdateAvailable(t *testing.T) {
	for _, tag := range []string{"0.0.0", "0.0.1", "1.0.0", "99.0.0-rc.1"} {
		assert.Equal(t, DecisionNotInstalled, Decide(Version{}, &Release{TagName: tag}), tag)
	}
}

func TestDecisionNeedsInstall(t *testing.T) {
	assert.True(t, DecisionNotInstalled.NeedsInstall())
	assert.True(t, DecisionUpdateAvailable.NeedsInstall())
	assert.False(t, DecisionUpToDate.NeedsInstall())
	assert.False(t, DecisionNoRemoteAvailable.NeedsInstall())
}
