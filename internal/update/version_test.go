package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantMajor  int
		wantMinor  int
		wantPatch  int
		wantPrerel string
		wantErr    bool
	}{
		{
			name:      "simple version",
			input:     "1.2.3",
			wantMajor: 1, wantMinor: 2, wantPatch: 3,
		},
		{
			name:      "version with v prefix",
			input:     "v1.2.3",
			wantMajor: 1, wantMinor: 2, wantPatch: 3,
		},
		{
			name:      "version with prerelease",
			input:     "v1.2.3-beta.1",
			wantMajor: 1, wantMinor: 2, wantPatch: 3,
			wantPrerel: "beta.1",
		},
		{
			name:      "version with build metadata",
			input:     "1.2.3+build.7",
			wantMajor: 1, wantMinor: 2, wantPatch: 3,
		},
		{
			name:      "surrounding whitespace",
			input:     "  2.0.0\n",
			wantMajor: 2,
		},
		{
			name:      "large numbers",
			input:     "v100.200.300",
			wantMajor: 100, wantMinor: 200, wantPatch: 300,
		},
		{name: "empty string", input: "", wantErr: true},
		{name: "missing patch", input: "1.2", wantErr: true},
		{name: "major only", input: "v1", wantErr: true},
		{name: "letters", input: "latest", wantErr: true},
		{name: "extra parts", input: "1.2.3.4", wantErr: true},
		{name: "leading zero", input: "01.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidVersion)
				assert.True(t, v.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMajor, v.Major)
			assert.Equal(t, tt.wantMinor, v.Minor)
			assert.Equal(t, tt.wantPatch, v.Patch)
			assert.Equal(t, tt.wantPrerel, v.Prerelease)
			assert.False(t, v.IsZero())
		})
	}
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"1.10.0", "1.9.0", 1},
		{"1.0.10", "1.0.9", 1},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha.beta", -1},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-rc.1", "1.0.0", -1},
		{"1.0.0+a", "1.0.0+b", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			a, err := ParseVersion(tt.a)
			require.NoError(t, err)
			b, err := ParseVersion(tt.b)
			require.NoError(t, err)

			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
			assert.Equal(t, tt.want < 0, a.LessThan(b))
			assert.Equal(t, tt.want > 0, a.GreaterThan(b))
			assert.Equal(t, tt.want == 0, a.Equal(b))
		})
	}
}

func TestZeroVersionSortsFirst(t *testing.T) {
	v, err := ParseVersion("0.0.0")
	require.NoError(t, err)
	assert.True(t, Version{}.LessThan(v))
	assert.Equal(t, "", Version{}.String())
}

func TestVersionStringKeepsSourceText(t *testing.T) {
	v, err := ParseVersion("v2.1.0-rc.1")
	require.NoError(t, err)
	assert.Equal(t, "v2.1.0-rc.1", v.String())
}
