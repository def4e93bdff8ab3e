// Package launch hands control from the launcher to the installed game binary.
package launch

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"launcher/internal/debug"
	apperrors "launcher/internal/errors"
	"launcher/internal/update"
)

// Controller starts the installed executable as an independent process and
// then ends the launcher.
type Controller struct {
	path string

	start func(cmd *exec.Cmd) error
	exit  func(code int)
}

// Option configures a Controller.
type Option func(*Controller)

// WithStarter replaces the function used to start the child process.
func WithStarter(start func(cmd *exec.Cmd) error) Option {
	return func(c *Controller) {
		c.start = start
	}
}

// WithExit replaces os.Exit.
func WithExit(exit func(code int)) Option {
	return func(c *Controller) {
		c.exit = exit
	}
}

// New returns a controller for the executable of app inside dir on platform p.
// The path is made absolute so a bare name never resolves through PATH.
func New(dir, app string, p update.Platform, opts ...Option) (*Controller, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(filepath.Join(dir, p.ExecutableName(app)))
	if err != nil {
		return nil, apperrors.New(apperrors.CodeLaunchFailed, "resolve executable", err)
	}
	c := &Controller{
		path:  abs,
		start: startDetached,
		exit:  os.Exit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Path returns the absolute path of the executable that Launch starts.
func (c *Controller) Path() string {
	return c.path
}

// Launch starts the executable and exits the launcher with code 0. It only
// returns when the child could not be started.
func (c *Controller) Launch() error {
	cmd := exec.Command(c.path)
	cmd.Dir = filepath.Dir(c.path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setDetachedProcAttr(cmd)

	if err := c.start(cmd); err != nil {
		debug.Errorf("launch %s: %v", c.path, err)
		return apperrors.New(apperrors.CodeLaunchFailed, fmt.Sprintf("start %s", c.path), err)
	}
	debug.Infof("launched %s", c.path)
	c.exit(0)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	if err := cmd.Process.Release(); err != nil {
		debug.Warnf("release child process: %v", err)
	}
	return nil
}
