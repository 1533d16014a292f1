package browser

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/adsharma/knowledge-graph-of-thoughts/core/convert"
)

// saveDownload streams a response body into the downloads folder and
// returns the path of the saved file. The filename comes from the URL
// basename when one is usable, with a numeric suffix on collisions; as
// a last resort a random name is generated with an extension guessed
// from the content type.
func (b *Browser) saveDownload(resp *http.Response, rawURL string) (string, error) {
	fname := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		fname = sanitizeFilename(path.Base(parsed.Path))
	}

	var downloadPath string
	if fname != "" {
		ext := filepath.Ext(fname)
		base := strings.TrimSuffix(fname, ext)
		downloadPath = filepath.Join(b.cfg.DownloadsFolder, fname)
		for suffix := 1; suffix < 1000; suffix++ {
			if _, err := os.Stat(downloadPath); os.IsNotExist(err) {
				break
			}
			downloadPath = filepath.Join(b.cfg.DownloadsFolder, fmt.Sprintf("%s__%d%s", base, suffix, ext))
		}
		// The suffix search is bounded at 999; when every candidate is
		// taken the last one is overwritten.
		if _, err := os.Stat(downloadPath); err == nil {
			b.cfg.Logger.Debug("download suffixes exhausted, overwriting", "path", downloadPath)
		}
	} else {
		ext := convert.ExtensionForContentType(resp.Header.Get("Content-Type"))
		if ext == "" {
			ext = ".download"
		}
		downloadPath = filepath.Join(b.cfg.DownloadsFolder, uuid.NewString()+ext)
	}

	abs, err := filepath.Abs(downloadPath)
	if err == nil {
		downloadPath = abs
	}

	f, err := os.Create(downloadPath)
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("saving download: %w", err)
	}
	return downloadPath, nil
}

// sanitizeFilename keeps only characters safe for a local filename.
// Returns "" when nothing usable remains.
func sanitizeFilename(name string) string {
	var sb strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			sb.WriteRune(ch)
		case ch == '.' || ch == '-' || ch == '_':
			sb.WriteRune(ch)
		}
	}
	out := strings.Trim(sb.String(), ".")
	if out == "" || out == "-" || out == "_" {
		return ""
	}
	return out
}
