package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         Platform
	}{
		{"windows", "amd64", PlatformWindows},
		{"windows", "arm64", PlatformWindows},
		{"darwin", "arm64", PlatformMacOSARM},
		{"darwin", "amd64", PlatformMacOSIntel},
		{"linux", "amd64", PlatformLinux},
		{"linux", "arm64", PlatformLinux},
		{"freebsd", "amd64", PlatformLinux},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			assert.Equal(t, tt.want, PlatformFor(tt.goos, tt.goarch))
		})
	}
}

func TestPlatformNaming(t *testing.T) {
	tests := []struct {
		platform   Platform
		prefix     string
		executable string
	}{
		{PlatformWindows, "westward-windows", "westward.exe"},
		{PlatformMacOSARM, "westward-macos-a", "westward"},
		{PlatformMacOSIntel, "westward-macos-i", "westward"},
		{PlatformLinux, "westward-linux", "westward"},
	}
	for _, tt := range tests {
		t.Run(tt.platform.String(), func(t *testing.T) {
			assert.Equal(t, tt.prefix, tt.platform.AssetPrefix("westward"))
			assert.Equal(t, tt.executable, tt.platform.ExecutableName("westward"))
		})
	}
}

func TestSelectAssetFirstMatch(t *testing.T) {
	assets := []Asset{
		{Name: "westward-linux-1.0", BrowserDownloadURL: "https://example.com/a"},
		{Name: "westward-windows-1.0", BrowserDownloadURL: "https://example.com/b"},
		{Name: "westward-linux-1.0-debug", BrowserDownloadURL: "https://example.com/c"},
	}

	got, ok := SelectAsset(assets, PlatformLinux.AssetPrefix("westward"))
	assert.True(t, ok)
	assert.Equal(t, assets[0], got)

	got, ok = SelectAsset(assets, PlatformWindows.AssetPrefix("westward"))
	assert.True(t, ok)
	assert.Equal(t, assets[1], got)
}

func TestSelectAssetNoMatch(t *testing.T) {
	assets := []Asset{
		{Name: "westward-1.0.jar"},
		{Name: "westward-windows-1.0.exe"},
	}

	_, ok := SelectAsset(assets, PlatformMacOSARM.AssetPrefix("westward"))
	assert.False(t, ok)

	_, ok = SelectAsset(nil, "westward-linux")
	assert.False(t, ok)
}

func TestSelectAssetIsCaseSensitivePrefix(t *testing.T) {
	assets := []Asset{
		{Name: "Westward-linux-1.0"},
		{Name: "old-westward-linux-1.0"},
	}
	_, ok := SelectAsset(assets, "westward-linux")
	assert.False(t, ok)
}

func TestReleaseAssetFor(t *testing.T) {
	release := &Release{
		TagName: "1.0.0",
		Assets: []Asset{
			{Name: "westward-macos-i-1.0.0"},
			{Name: "westward-macos-a-1.0.0"},
		},
	}

	got, ok := release.AssetFor(PlatformMacOSARM, "westward")
	assert.True(t, ok)
	assert.Equal(t, "westward-macos-a-1.0.0", got.Name)

	_, ok = (*Release)(nil).AssetFor(PlatformLinux, "westward")
	assert.False(t, ok)
}
