package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"launcher/internal/config"
	"launcher/internal/debug"
	apperrors "launcher/internal/errors"
	"launcher/internal/journal"
	"launcher/internal/launch"
	"launcher/internal/orchestrator"
	"launcher/internal/ui"
	"launcher/internal/update"
)

// app carries the process-level seams the commands depend on.
type app struct {
	stdout io.Writer
	stderr io.Writer

	platform   update.Platform
	launchOpts []launch.Option

	// transport is shared by the feed and asset clients.
	transport http.RoundTripper

	// interactive reports whether prompts and the full-screen UI can be used.
	interactive  func() bool
	confirm      func(title string) (bool, error)
	afterFailure func() (launchAnyway bool, err error)
	runUI        func(ctx context.Context, flow ui.Flow, opts ui.Options) error
}

func newApp() *app {
	return &app{
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		platform:     update.CurrentPlatform(),
		transport:    http.DefaultTransport.(*http.Transport).Clone(),
		interactive:  isInteractiveTTY,
		confirm:      confirmPrompt,
		afterFailure: failurePrompt,
		runUI: func(ctx context.Context, flow ui.Flow, opts ui.Options) error {
			return ui.Run(ctx, flow, opts, nil, nil)
		},
	}
}

// isInteractiveTTY checks that both stdin and stdout are terminals.
func isInteractiveTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func confirmPrompt(title string) (bool, error) {
	var confirmed bool
	form := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func failurePrompt() (bool, error) {
	choice := "launch"
	form := huh.NewSelect[string]().
		Title("What next?").
		Options(
			huh.NewOption("Attempt launch", "launch"),
			huh.NewOption("Exit", "exit"),
		).
		Value(&choice)

	if err := form.Run(); err != nil {
		return false, err
	}
	return choice == "launch", nil
}

type rootFlags struct {
	debug      bool
	feedURL    string
	installDir string
	plain      bool
	yes        bool
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "launcher",
		Short: "Install, update and start Westward",
		Long: `launcher checks the latest Westward release, installs or updates the
game when needed, and then starts it.

When the installed version is current, or the release feed cannot be reached,
the installed game is started straight away.

Without a terminal an install or update needs --yes. A run without it installs
nothing and does not start the installed game.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			controller, err := a.run(cmd.Context(), flags)
			if err != nil || controller == nil {
				return err
			}
			return controller.Launch()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write a debug log to ~/.westward/launcher.log")
	rootCmd.PersistentFlags().StringVar(&flags.feedURL, "feed-url", "", "Release feed URL")
	rootCmd.PersistentFlags().StringVar(&flags.installDir, "install-dir", "", "Directory holding the game and its version file")
	rootCmd.Flags().BoolVar(&flags.plain, "plain", false, "Use line output instead of the full-screen interface")
	rootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Install or update without asking; without it a non-interactive run installs and starts nothing")

	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// prepare initializes configuration, applies explicitly set flags and starts
// debug logging.
func (a *app) prepare(cmd *cobra.Command, flags *rootFlags) error {
	if err := config.Initialize(); err != nil {
		return apperrors.New(apperrors.CodeConfigurationError, "initialize config", err)
	}

	overrides := map[string]any{}
	if cmd.Flags().Changed("debug") {
		overrides[config.KeyDebug] = flags.debug
	}
	if cmd.Flags().Changed("feed-url") {
		overrides[config.KeyFeedURL] = strings.TrimSpace(flags.feedURL)
	}
	if cmd.Flags().Changed("install-dir") {
		overrides[config.KeyInstallDir] = strings.TrimSpace(flags.installDir)
	}
	if cmd.Flags().Changed("plain") && flags.plain {
		overrides[config.KeyUIMode] = config.UIModePlain
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		return apperrors.New(apperrors.CodeConfigurationError, "apply flags", err)
	}

	if err := debug.Init(config.GetBool(config.KeyDebug)); err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Warning: debug log unavailable: %v\n", err)
	}
	return nil
}

// resolved is the outcome of fetching the feed and comparing versions.
type resolved struct {
	cfg       config.Launcher
	store     *update.Store
	installed update.Version
	release   *update.Release
	feedErr   error
	decision  update.Decision
}

func (a *app) resolve(ctx context.Context) (resolved, error) {
	cfg, err := config.Load()
	if err != nil {
		return resolved{}, apperrors.New(apperrors.CodeConfigurationError, "load config", err)
	}

	store := update.NewStore(cfg.VersionPath())
	installed, ok := store.Load()
	if ok {
		debug.Logf("installed version %s (%s)", installed, store.Path())
	} else {
		debug.Logf("no installed version at %s", store.Path())
	}

	resolver := update.NewResolver(cfg.FeedURL,
		update.WithHTTPClient(&http.Client{Transport: a.transport}),
		update.WithTimeout(cfg.FeedTimeout),
		update.WithUserAgent(update.UserAgent(cfg.AppName)),
	)
	release, feedErr := resolver.FetchLatest(ctx)
	if feedErr != nil {
		debug.Warnf("release feed unavailable: %v", feedErr)
		release = nil
	}

	decision := update.Decide(installed, release)
	debug.Infof("decision %s", decision)
	return resolved{
		cfg:       cfg,
		store:     store,
		installed: installed,
		release:   release,
		feedErr:   feedErr,
		decision:  decision,
	}, nil
}

// run executes the launch flow. It returns the controller to launch with, or
// nil when the launcher should end without launching. Resources are released
// before it returns so the launch can end the process.
func (a *app) run(ctx context.Context, flags *rootFlags) (*launch.Controller, error) {
	res, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}
	cfg := res.cfg

	controller, err := launch.New(cfg.InstallDir, cfg.AppName, a.platform, a.launchOpts...)
	if err != nil {
		return nil, err
	}

	rec := openJournal(ctx, cfg.JournalPath)
	defer func() {
		if rec != nil {
			_ = rec.Close()
		}
	}()

	if !res.decision.NeedsInstall() {
		entry := journal.Entry{
			Installed: res.installed.String(),
			Decision:  res.decision.String(),
			Outcome:   orchestrator.OutcomeLaunch.String(),
		}
		if res.release != nil {
			entry.Remote = res.release.TagName
		}
		if res.feedErr != nil {
			entry.Detail = res.feedErr.Error()
		}
		record(ctx, rec, entry)
		return controller, nil
	}

	orchCfg := orchestrator.Config{
		Decision:   res.decision,
		Installed:  res.installed,
		Release:    res.release,
		App:        cfg.AppName,
		Platform:   a.platform,
		InstallDir: cfg.InstallDir,
		Downloader: update.NewDownloader(
			update.WithDownloaderHTTPClient(&http.Client{Transport: a.transport}),
			update.WithDownloaderUserAgent(update.UserAgent(cfg.AppName)),
			update.WithKeepPartial(cfg.KeepPartial),
		),
		Store: res.store,
	}
	if rec != nil {
		orchCfg.Journal = rec
	}
	orch, err := orchestrator.New(ctx, orchCfg)
	if err != nil {
		return nil, err
	}

	title := displayName(cfg.AppName)
	if cfg.UIMode == config.UIModePlain || !a.interactive() {
		err = a.runPlain(ctx, orch, title, flags.yes)
	} else {
		err = a.runUI(ctx, orch, ui.Options{Title: title, NotesStyle: cfg.NotesStyle})
	}
	if err != nil {
		return nil, err
	}

	if orch.Outcome() == orchestrator.OutcomeLaunch {
		return controller, nil
	}
	return nil, nil
}

// openJournal opens the run journal. Journal problems never stop a launch.
func openJournal(ctx context.Context, path string) *journal.Journal {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	j, err := journal.Open(ctx, path)
	if err != nil {
		debug.Warnf("journal disabled: %v", err)
		return nil
	}
	debug.Logf("journal at %s", j.Path())
	return j
}

func record(ctx context.Context, rec *journal.Journal, e journal.Entry) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, e); err != nil {
		debug.Warnf("journal: %v", err)
	}
}

// displayName turns the configured app name into a title, "westward" -> "Westward".
func displayName(app string) string {
	app = strings.TrimSpace(app)
	if app == "" {
		return ""
	}
	return strings.ToUpper(app[:1]) + app[1:]
}
