package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show what the launcher would do, without downloading or launching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			installed := "not installed"
			if !res.installed.IsZero() {
				installed = res.installed.String()
			}
			_, _ = fmt.Fprintf(w, "Installed: %s (%s)\n", installed, res.store.Path())

			switch {
			case res.feedErr != nil:
				_, _ = fmt.Fprintf(w, "Latest:    unavailable (%v)\n", res.feedErr)
			case res.release != nil:
				_, _ = fmt.Fprintf(w, "Latest:    %s, published %s\n", res.release.TagName, res.release.PublishedLabel())
				if res.release.HTMLURL != "" {
					_, _ = fmt.Fprintf(w, "Notes:     %s\n", res.release.HTMLURL)
				}
			}
			_, _ = fmt.Fprintf(w, "Decision:  %s\n", res.decision)

			if res.release == nil {
				return nil
			}
			asset, ok := res.release.AssetFor(a.platform, res.cfg.AppName)
			if !ok {
				_, _ = fmt.Fprintf(w, "Asset:     none for %s (want %s*)\n", a.platform, a.platform.AssetPrefix(res.cfg.AppName))
				return nil
			}
			if asset.Size > 0 {
				_, _ = fmt.Fprintf(w, "Asset:     %s (%s)\n", asset.Name, humanize.Bytes(uint64(asset.Size)))
			} else {
				_, _ = fmt.Fprintf(w, "Asset:     %s\n", asset.Name)
			}
			return nil
		},
	}
}
