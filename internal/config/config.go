package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyAppName     = "app.name"
	KeyFeedURL     = "feed.url"
	KeyFeedTimeout = "feed.timeout"
	KeyInstallDir  = "install.dir"
	KeyVersionFile = "install.version-file"
	KeyKeepPartial = "download.keep-partial"
	KeyJournalPath = "journal.path"
	KeyUIMode      = "ui.mode"
	KeyNotesStyle  = "ui.notes-style"
	KeyDebug       = "log.debug"
)

const (
	defaultAppName     = "westward"
	defaultFeedURL     = "https://api.github.com/repos/d-catte/Westward/releases/latest"
	defaultFeedTimeout = 10 * time.Second
	defaultVersionFile = "version"
	defaultJournalName = "launcher.db"
	configDirName      = ".westward"
	configFileName     = "launcher.yaml"
	envPrefix          = "WESTWARD"
)

// UI modes.
const (
	UIModeTUI   = "tui"
	UIModePlain = "plain"
)

type initSettings struct {
	workingDir        string
	projectConfigPath string
	userConfigPath    string
}

// Option configures Initialize behaviour. Useful for tests to override paths.
type Option func(*initSettings)

// WithWorkingDir overrides the directory used for project config discovery.
func WithWorkingDir(dir string) Option {
	return func(cfg *initSettings) {
		cfg.workingDir = dir
	}
}

// WithProjectConfig explicitly sets the project config path instead of discovery.
func WithProjectConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.projectConfigPath = path
	}
}

// WithUserConfig overrides the default user config path.
func WithUserConfig(path string) Option {
	return func(cfg *initSettings) {
		cfg.userConfigPath = path
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	configInst *viper.Viper
	initErr    error
)

// Initialize loads configuration using the precedence:
// defaults < user config < project config < environment variables < overrides.
func Initialize(opts ...Option) error {
	configOnce.Do(func() {
		settings := initSettings{}
		for _, opt := range opts {
			opt(&settings)
		}
		initErr = configure(&settings)
	})
	return initErr
}

// ApplyOverrides injects values typically coming from CLI flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	configMu.Lock()
	defer configMu.Unlock()
	if configInst == nil {
		return fmt.Errorf("configuration not initialized")
	}
	for k, v := range overrides {
		configInst.Set(k, v)
	}
	return nil
}

// GetString fetches a string configuration value, initializing on demand.
func GetString(key string) string {
	v, err := getViper()
	if err != nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool fetches a bool configuration value, initializing on demand.
func GetBool(key string) bool {
	v, err := getViper()
	if err != nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration fetches a duration configuration value, initializing on demand.
func GetDuration(key string) time.Duration {
	v, err := getViper()
	if err != nil {
		return 0
	}
	return v.GetDuration(key)
}

// Launcher is the resolved launcher configuration.
type Launcher struct {
	AppName     string
	FeedURL     string
	FeedTimeout time.Duration
	InstallDir  string
	VersionFile string
	KeepPartial bool
	JournalPath string
	UIMode      string
	NotesStyle  string
	Debug       bool
}

// VersionPath returns the version marker path, resolved against the install dir.
func (l Launcher) VersionPath() string {
	if filepath.IsAbs(l.VersionFile) {
		return l.VersionFile
	}
	return filepath.Join(l.InstallDir, l.VersionFile)
}

// Load resolves the current configuration into a Launcher.
func Load() (Launcher, error) {
	if err := Initialize(); err != nil {
		return Launcher{}, err
	}
	l := Launcher{
		AppName:     strings.TrimSpace(GetString(KeyAppName)),
		FeedURL:     strings.TrimSpace(GetString(KeyFeedURL)),
		FeedTimeout: GetDuration(KeyFeedTimeout),
		InstallDir:  strings.TrimSpace(GetString(KeyInstallDir)),
		VersionFile: strings.TrimSpace(GetString(KeyVersionFile)),
		KeepPartial: GetBool(KeyKeepPartial),
		JournalPath: strings.TrimSpace(GetString(KeyJournalPath)),
		UIMode:      strings.ToLower(strings.TrimSpace(GetString(KeyUIMode))),
		NotesStyle:  strings.ToLower(strings.TrimSpace(GetString(KeyNotesStyle))),
		Debug:       GetBool(KeyDebug),
	}
	if l.AppName == "" {
		return Launcher{}, fmt.Errorf("%s must not be empty", KeyAppName)
	}
	if l.FeedURL == "" {
		return Launcher{}, fmt.Errorf("%s must not be empty", KeyFeedURL)
	}
	if l.InstallDir == "" {
		l.InstallDir = "."
	}
	if l.VersionFile == "" {
		l.VersionFile = defaultVersionFile
	}
	if l.FeedTimeout < 0 {
		l.FeedTimeout = 0
	}
	switch l.UIMode {
	case UIModeTUI, UIModePlain:
	case "":
		l.UIMode = UIModeTUI
	default:
		return Launcher{}, fmt.Errorf("%s: unknown mode %q (want %s or %s)", KeyUIMode, l.UIMode, UIModeTUI, UIModePlain)
	}
	return l, nil
}

func configure(settings *initSettings) error {
	workingDir := strings.TrimSpace(settings.workingDir)
	if workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		workingDir = wd
	}

	userConfigPath := strings.TrimSpace(settings.userConfigPath)
	if userConfigPath == "" {
		path, err := defaultUserConfigPath()
		if err != nil {
			return err
		}
		userConfigPath = path
	}

	projectConfigPath := strings.TrimSpace(settings.projectConfigPath)
	if projectConfigPath == "" {
		path, err := findProjectConfig(workingDir)
		if err != nil {
			return err
		}
		projectConfigPath = path
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := mergeConfigFile(v, userConfigPath); err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	if err := mergeConfigFile(v, projectConfigPath); err != nil {
		return fmt.Errorf("load project config: %w", err)
	}

	configMu.Lock()
	defer configMu.Unlock()
	configInst = v
	return nil
}

func mergeConfigFile(v *viper.Viper, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: Config loader intentionally reads user and project config files
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func userConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func findProjectConfig(startDir string) (string, error) {
	if strings.TrimSpace(startDir) == "" {
		return "", nil
	}
	dir := startDir
	for {
		candidate := filepath.Join(dir, configDirName, configFileName)
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config path %s is a directory", candidate)
			}
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAppName, defaultAppName)
	v.SetDefault(KeyFeedURL, defaultFeedURL)
	v.SetDefault(KeyFeedTimeout, defaultFeedTimeout)
	v.SetDefault(KeyInstallDir, ".")
	v.SetDefault(KeyVersionFile, defaultVersionFile)
	v.SetDefault(KeyKeepPartial, false)
	v.SetDefault(KeyJournalPath, defaultJournalPath())
	v.SetDefault(KeyUIMode, UIModeTUI)
	v.SetDefault(KeyNotesStyle, "auto")
	v.SetDefault(KeyDebug, false)
}

func defaultJournalPath() string {
	dir, err := userConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, defaultJournalName)
}

func getViper() (*viper.Viper, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	configMu.RLock()
	defer configMu.RUnlock()
	if configInst == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return configInst, nil
}

// reset clears package state for tests.
func reset() {
	configMu.Lock()
	defer configMu.Unlock()
	configInst = nil
	initErr = nil
	configOnce = sync.Once{}
}

// ResetForTesting clears package state for tests in other packages.
// Returns a cleanup function that should be deferred.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, configFileName)))
	return reset
}
