package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-multierror"

	apperrors "launcher/internal/errors"
)

const (
	// chunkSize is the read buffer used while streaming an asset.
	chunkSize = 32 << 10

	// partialSuffix is appended to the destination while a download is staged.
	partialSuffix = ".part"
)

// ErrDownloadFailed marks a failed asset download.
var ErrDownloadFailed = errors.New("download failed")

// Downloader streams release assets to disk.
type Downloader struct {
	userAgent   string
	keepPartial bool
	httpClient  *http.Client
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloaderHTTPClient sets a custom HTTP client for the downloader.
func WithDownloaderHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.httpClient = client
	}
}

// WithDownloaderUserAgent sets the User-Agent header sent with asset requests.
func WithDownloaderUserAgent(ua string) DownloaderOption {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// WithKeepPartial leaves the staged partial file on disk after a failure.
func WithKeepPartial(keep bool) DownloaderOption {
	return func(d *Downloader) {
		d.keepPartial = keep
	}
}

// NewDownloader creates a downloader.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		userAgent: UserAgent(DefaultAppName),
		httpClient: &http.Client{
			Timeout: 0, // No timeout for downloads
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// PartialPath returns the staging path used while dest is being downloaded.
func PartialPath(dest string) string {
	return dest + partialSuffix
}

// Download streams asset to dest, publishing progress after every chunk.
//
// The staging file is opened before the request is sent. On success it is
// renamed over dest and progress is forced to exactly 1. On failure dest is
// left untouched, progress keeps its last value, and the staging file is
// removed unless the downloader keeps partial files. There is no retry.
func (d *Downloader) Download(ctx context.Context, asset Asset, dest string, progress *Progress) (err error) {
	if progress == nil {
		progress = NewProgress()
	}
	progress.Reset(0)

	partial := PartialPath(dest)
	//nolint:gosec // G302,G304: the installed binary must be executable; path comes from config
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return downloadError("create destination", err)
	}

	closed := false
	defer func() {
		if !closed {
			if cerr := out.Close(); cerr != nil {
				err = multierror.Append(err, fmt.Errorf("close %s: %w", partial, cerr))
			}
		}
		if err != nil && !d.keepPartial {
			_ = os.Remove(partial)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return downloadError("create request", err)
	}
	req.Header.Set("Accept", "application/octet-stream")
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return downloadError("request asset", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return downloadError("request asset", fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode))
	}

	progress.Reset(resp.ContentLength)

	if err := copyChunks(out, resp.Body, progress); err != nil {
		return err
	}

	if err := out.Sync(); err != nil {
		return downloadError("sync destination", err)
	}
	closed = true
	if err := out.Close(); err != nil {
		return downloadError("close destination", err)
	}
	if err := os.Rename(partial, dest); err != nil {
		return downloadError("install destination", err)
	}

	progress.Complete()
	return nil
}

// copyChunks writes body to out one chunk at a time, updating progress after
// each write.
func copyChunks(out io.Writer, body io.Reader, progress *Progress) error {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return downloadError("write destination", err)
			}
			written += int64(n)
			progress.Advance(written)
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return downloadError("read asset", readErr)
		}
	}
}

func downloadError(msg string, err error) error {
	return apperrors.New(apperrors.CodeDownloadFailed, msg, fmt.Errorf("%w: %w", ErrDownloadFailed, err))
}
