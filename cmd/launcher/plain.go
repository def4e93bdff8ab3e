package main

import (
	"context"
	"errors"
	"fmt"

	"launcher/internal/debug"
	"launcher/internal/orchestrator"
	"launcher/internal/update"
)

// errInstallAborted is returned when a headless run cannot install and has
// nothing to fall back to.
var errInstallAborted = errors.New("install aborted")

// runPlain drives the orchestrator with line output and prompts instead of
// the full-screen interface. title is the product name shown to the user.
func (a *app) runPlain(ctx context.Context, orch *orchestrator.Orchestrator, title string, assumeYes bool) error {
	release := orch.Release()
	switch orch.State() {
	case orchestrator.StateNotInstalled:
		_, _ = fmt.Fprintf(a.stdout, "Welcome to the %s Installer\nLatest release %s, published %s\n", title, release.TagName, release.PublishedLabel())
	case orchestrator.StateUpdateAvailable:
		_, _ = fmt.Fprintf(a.stdout, "Update available: %s from %s\n", release.TagName, release.PublishedLabel())
	}

	interactive := a.interactive()
	if !assumeYes {
		if !interactive {
			_, _ = fmt.Fprintf(a.stdout, "Not a terminal; %s was not started. Rerun with --yes to install %s without a prompt.\n", title, release.TagName)
			orch.Exit()
			return errInstallAborted
		}
		ok, err := a.confirm(fmt.Sprintf("Install %s?", release.TagName))
		if err != nil {
			debug.Warnf("confirm prompt: %v", err)
		}
		if err != nil || !ok {
			orch.Exit()
			return nil
		}
	}

	orch.ConfirmInstallOrUpdate()
	if orch.State() == orchestrator.StateDownloading {
		line := newProgressLine(a.stdout, orch.Asset().Name, orch.Progress, interactive)
		err := orch.Wait(ctx)
		line.Stop()
		if err != nil {
			orch.Exit()
			return err
		}
	}

	if orch.Outcome() == orchestrator.OutcomeLaunch {
		_, _ = fmt.Fprintf(a.stdout, "Installed %s\n", release.TagName)
		return nil
	}

	_, _ = fmt.Fprintf(a.stderr, "Failed to download %s: %v\n", title, orch.Err())
	if !interactive {
		// The previous install is untouched by a failed update.
		if orch.Decision() == update.DecisionUpdateAvailable {
			orch.RetryLaunch()
			return nil
		}
		orch.Exit()
		return fmt.Errorf("%w: %w", errInstallAborted, orch.Err())
	}
	launchAnyway, err := a.afterFailure()
	if err != nil {
		debug.Warnf("failure prompt: %v", err)
	}
	if err == nil && launchAnyway {
		orch.RetryLaunch()
	} else {
		orch.Exit()
	}
	return nil
}
