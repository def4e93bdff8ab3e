// Package orchestrator drives the install/update flow once the launcher knows
// an install or update is needed. It owns the update state, the shared
// download progress cell and the background download task.
//
// An Orchestrator belongs to the foreground loop and is not safe for
// concurrent use. The download goroutine only writes the progress cell and
// its own result channel; the foreground learns of completion through Poll
// or Wait.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"launcher/internal/debug"
	apperrors "launcher/internal/errors"
	"launcher/internal/journal"
	"launcher/internal/update"
)

// State is the foreground update state.
type State int

const (
	StateNotInstalled State = iota
	StateUpdateAvailable
	StateDownloading
	StateFailedToDownload
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateNotInstalled:
		return "not-installed"
	case StateUpdateAvailable:
		return "update-available"
	case StateDownloading:
		return "downloading"
	case StateFailedToDownload:
		return "failed-to-download"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is what the launcher does once the flow is over.
type Outcome int

const (
	// OutcomeNone means the flow is still running.
	OutcomeNone Outcome = iota
	// OutcomeLaunch hands over to the installed binary.
	OutcomeLaunch
	// OutcomeExit ends the launcher without launching.
	OutcomeExit
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeLaunch:
		return "launch"
	case OutcomeExit:
		return "exit"
	default:
		return "none"
	}
}

// ErrNoInstallNeeded is returned by New for decisions that launch directly.
var ErrNoInstallNeeded = errors.New("decision does not need an install")

// Downloader fetches an asset into dest, publishing progress.
type Downloader interface {
	Download(ctx context.Context, asset update.Asset, dest string, progress *update.Progress) error
}

// VersionSaver persists the installed version.
type VersionSaver interface {
	Save(v update.Version) error
}

// Config holds everything the orchestrator needs for one run.
type Config struct {
	Decision  update.Decision
	Installed update.Version
	Release   *update.Release

	App        string
	Platform   update.Platform
	InstallDir string

	Downloader Downloader
	Store      VersionSaver
	// Journal is optional.
	Journal journal.Recorder
}

// task is the handle for the single background download.
type task struct {
	result chan error
	cancel context.CancelFunc
}

// Orchestrator is the install/update state machine.
type Orchestrator struct {
	ctx context.Context
	cfg Config

	state    State
	outcome  Outcome
	err      error
	asset    update.Asset
	dest     string
	version  update.Version
	progress *update.Progress
	task     *task
}

// New builds an orchestrator for a NotInstalled or UpdateAvailable decision.
func New(ctx context.Context, cfg Config) (*Orchestrator, error) {
	if !cfg.Decision.NeedsInstall() {
		return nil, fmt.Errorf("%w: %s", ErrNoInstallNeeded, cfg.Decision)
	}
	if cfg.Release == nil {
		return nil, fmt.Errorf("orchestrator: release is required")
	}
	if cfg.Downloader == nil || cfg.Store == nil {
		return nil, fmt.Errorf("orchestrator: downloader and store are required")
	}
	version, err := cfg.Release.Version()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if cfg.App == "" {
		cfg.App = update.DefaultAppName
	}
	if cfg.InstallDir == "" {
		cfg.InstallDir = "."
	}

	state := StateUpdateAvailable
	if cfg.Decision == update.DecisionNotInstalled {
		state = StateNotInstalled
	}
	return &Orchestrator{
		ctx:      ctx,
		cfg:      cfg,
		state:    state,
		dest:     filepath.Join(cfg.InstallDir, cfg.Platform.ExecutableName(cfg.App)),
		version:  version,
		progress: update.NewProgress(),
	}, nil
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Progress returns a snapshot of the download progress.
func (o *Orchestrator) Progress() update.ProgressSnapshot {
	return o.progress.Snapshot()
}

// Release returns the release being installed.
func (o *Orchestrator) Release() *update.Release {
	return o.cfg.Release
}

// Decision returns the decision the orchestrator was built for.
func (o *Orchestrator) Decision() update.Decision {
	return o.cfg.Decision
}

// Asset returns the asset selected on confirm. It is zero before then.
func (o *Orchestrator) Asset() update.Asset {
	return o.asset
}

// Err returns the failure shown in StateFailedToDownload.
func (o *Orchestrator) Err() error {
	return o.err
}

// Outcome returns the terminal outcome, or OutcomeNone while running.
func (o *Orchestrator) Outcome() Outcome {
	return o.outcome
}

// Done reports whether the flow reached a terminal outcome.
func (o *Orchestrator) Done() bool {
	return o.outcome != OutcomeNone
}

// ConfirmInstallOrUpdate selects the platform asset and starts the download.
// It is ignored outside NotInstalled/UpdateAvailable and while a download task
// exists.
func (o *Orchestrator) ConfirmInstallOrUpdate() {
	if o.Done() || o.task != nil {
		return
	}
	if o.state != StateNotInstalled && o.state != StateUpdateAvailable {
		return
	}

	asset, ok := o.cfg.Release.AssetFor(o.cfg.Platform, o.cfg.App)
	if !ok {
		prefix := o.cfg.Platform.AssetPrefix(o.cfg.App)
		o.fail(apperrors.New(apperrors.CodeNoCompatibleAsset,
			fmt.Sprintf("no compatible asset for %s (want %s*)", o.cfg.Platform, prefix), nil))
		return
	}
	o.asset = asset

	ctx, cancel := context.WithCancel(o.ctx)
	t := &task{result: make(chan error, 1), cancel: cancel}
	o.task = t
	o.state = StateDownloading
	debug.Infof("downloading %s to %s", asset.Name, o.dest)

	go func(progress *update.Progress, dest string, version update.Version) {
		err := o.cfg.Downloader.Download(ctx, asset, dest, progress)
		if err == nil {
			err = o.cfg.Store.Save(version)
		}
		t.result <- err
	}(o.progress, o.dest, o.version)
}

// Poll checks the download task without blocking and applies its result.
func (o *Orchestrator) Poll() {
	if o.task == nil {
		return
	}
	select {
	case err := <-o.task.result:
		o.finish(err)
	default:
	}
}

// Wait blocks until the download task finishes or ctx is done. It returns
// immediately when no task is running.
func (o *Orchestrator) Wait(ctx context.Context) error {
	if o.task == nil {
		return nil
	}
	select {
	case err := <-o.task.result:
		o.finish(err)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryLaunch launches the existing installation after a failed download.
func (o *Orchestrator) RetryLaunch() {
	if o.Done() || o.state != StateFailedToDownload {
		return
	}
	o.conclude(OutcomeLaunch)
}

// Exit ends the flow without launching. A running download is cancelled and
// Exit returns only after the task has finished, so its staging file is gone.
func (o *Orchestrator) Exit() {
	if o.Done() {
		return
	}
	if o.task != nil {
		o.task.cancel()
		if err := <-o.task.result; err != nil {
			debug.Logf("download stopped: %v", err)
		}
		o.task = nil
	}
	o.conclude(OutcomeExit)
}

func (o *Orchestrator) finish(err error) {
	o.task.cancel()
	o.task = nil
	if err != nil {
		o.fail(err)
		return
	}
	debug.Infof("installed %s", o.version)
	o.conclude(OutcomeLaunch)
}

func (o *Orchestrator) fail(err error) {
	debug.Warnf("install failed: %v", err)
	o.err = err
	o.state = StateFailedToDownload
}

func (o *Orchestrator) conclude(outcome Outcome) {
	o.outcome = outcome
	if o.cfg.Journal == nil {
		return
	}
	entry := journal.Entry{
		Installed: o.cfg.Installed.String(),
		Remote:    o.cfg.Release.TagName,
		Decision:  o.cfg.Decision.String(),
		Outcome:   outcome.String(),
	}
	if o.err != nil {
		entry.Detail = o.err.Error()
	}
	if err := o.cfg.Journal.Record(context.WithoutCancel(o.ctx), entry); err != nil {
		debug.Warnf("journal: %v", err)
	}
}
