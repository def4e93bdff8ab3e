// Command launcher keeps Westward up to date and starts it.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"launcher/internal/debug"
)

func main() {
	a := newApp()
	err := fang.Execute(
		context.Background(),
		newRootCmd(a),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	debug.Close()
	if err != nil {
		os.Exit(1)
	}
}
