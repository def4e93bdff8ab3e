package update

import (
	"runtime"
	"strings"
)

// Platform identifies the native build a release asset targets.
type Platform int

const (
	// PlatformLinux is the default for every OS that is not Windows or macOS.
	PlatformLinux Platform = iota
	// PlatformWindows targets Windows.
	PlatformWindows
	// PlatformMacOSARM targets Apple Silicon macOS.
	PlatformMacOSARM
	// PlatformMacOSIntel targets Intel macOS.
	PlatformMacOSIntel
)

// String returns the string representation of a Platform.
func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformMacOSARM:
		return "macos-arm"
	case PlatformMacOSIntel:
		return "macos-intel"
	default:
		return "linux"
	}
}

// CurrentPlatform returns the platform of the running binary.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS, runtime.GOARCH)
}

// PlatformFor maps a GOOS/GOARCH pair onto a Platform.
func PlatformFor(goos, goarch string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "darwin":
		if goarch == "arm64" || goarch == "arm" {
			return PlatformMacOSARM
		}
		return PlatformMacOSIntel
	default:
		return PlatformLinux
	}
}

// AssetPrefix returns the asset name prefix published for this platform.
// Release assets are named as follows:
//
//	Windows:     <app>-windows-<tag>.exe
//	Linux:       <app>-linux-<tag>
//	macOS Intel: <app>-macos-i-<tag>
//	macOS ARM:   <app>-macos-a-<tag>
func (p Platform) AssetPrefix(app string) string {
	switch p {
	case PlatformWindows:
		return app + "-windows"
	case PlatformMacOSARM:
		return app + "-macos-a"
	case PlatformMacOSIntel:
		return app + "-macos-i"
	default:
		return app + "-linux"
	}
}

// ExecutableName returns the installed binary name for this platform.
func (p Platform) ExecutableName(app string) string {
	if p == PlatformWindows {
		return app + ".exe"
	}
	return app
}

// SelectAsset returns the first asset, in feed order, whose name starts with
// prefix. Feed authors disambiguate through asset names; no scoring is done.
func SelectAsset(assets []Asset, prefix string) (Asset, bool) {
	for _, asset := range assets {
		if strings.HasPrefix(asset.Name, prefix) {
			return asset, true
		}
	}
	return Asset{}, false
}
