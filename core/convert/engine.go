// Package convert turns documents of many formats into text.
//
// An Engine holds an ordered list of converters. For each candidate file
// extension, every converter gets a chance to handle the file; the first
// non-nil result wins. Converters signal "not mine" by returning
// (nil, nil), so format detection stays inside each converter.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/fetch"
)

// Config configures an Engine.
type Config struct {
	Logger  *slog.Logger
	Fetcher core.Fetcher

	// AudioEndpoint is an OpenAI-compatible transcription endpoint.
	AudioEndpoint string
	AudioAPIKey   string
	AudioModel    string

	// TranscriptEndpoint is the base URL of the YouTube timedtext API.
	TranscriptEndpoint string
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Fetcher == nil {
		c.Fetcher = fetch.New(fetch.Options{})
	}
	if c.AudioEndpoint == "" {
		c.AudioEndpoint = "https://api.openai.com/v1/audio/transcriptions"
	}
	if c.AudioModel == "" {
		c.AudioModel = "whisper-1"
	}
	if c.TranscriptEndpoint == "" {
		c.TranscriptEndpoint = "https://www.youtube.com/api/timedtext"
	}
}

type registration struct {
	name string
	conv core.Converter
}

// Engine dispatches documents to an ordered converter chain.
type Engine struct {
	cfg        Config
	converters []registration
}

// New creates an Engine with the standard converter chain. Converters
// are tried in registration order, so the most specific formats are
// registered before the generic text handlers.
func New(cfg Config) *Engine {
	cfg.defaults()
	e := &Engine{cfg: cfg}

	e.Register("xml", &XMLConverter{})
	e.Register("youtube", &YouTubeConverter{
		TranscriptEndpoint: cfg.TranscriptEndpoint,
		Fetcher:            cfg.Fetcher,
	})
	e.Register("docx", &DocxConverter{})
	e.Register("xlsx", &XlsxConverter{})
	e.Register("pptx", &PptxConverter{})
	e.Register("pdf", &PDFConverter{})
	e.Register("audio", &AudioConverter{
		Endpoint: cfg.AudioEndpoint,
		APIKey:   cfg.AudioAPIKey,
		Model:    cfg.AudioModel,
	})
	e.Register("html", &HTMLConverter{})
	e.Register("plaintext", &PlainTextConverter{})
	return e
}

// Register appends a converter to the chain.
func (e *Engine) Register(name string, c core.Converter) {
	e.converters = append(e.converters, registration{name: name, conv: c})
}

// Convert dispatches on the source: http(s) URLs are fetched, file URIs
// and bare paths are read locally.
func (e *Engine) Convert(ctx context.Context, source string, hints core.Hints) (*core.ConversionResult, error) {
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return e.ConvertURL(ctx, source, hints)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing file URI: %w", err)
		}
		return e.ConvertLocal(ctx, u.Path, hints)
	default:
		return e.ConvertLocal(ctx, source, hints)
	}
}

// ConvertLocal converts a file on disk. Candidate extensions, in order:
// the explicit hint, the path's extension, then a magic-byte sniff.
func (e *Engine) ConvertLocal(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	var extensions []string
	extensions = appendExt(extensions, hints.Extension)
	extensions = appendExt(extensions, filepath.Ext(path))
	extensions = appendExt(extensions, sniffExtension(path))
	return e.convert(ctx, path, extensions, hints)
}

// ConvertURL fetches the URL and converts the response.
func (e *Engine) ConvertURL(ctx context.Context, rawURL string, hints core.Hints) (*core.ConversionResult, error) {
	resp, err := e.cfg.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return e.ConvertResponse(ctx, resp, hints)
}

// ConvertResponse downloads the response body to a temporary file and
// converts it. The temporary file is removed before returning.
// Candidate extensions, in order: the explicit hint, the content type,
// the content-disposition filename, the URL path, then a magic-byte
// sniff of the downloaded bytes.
func (e *Engine) ConvertResponse(ctx context.Context, resp *http.Response, hints core.Hints) (*core.ConversionResult, error) {
	var extensions []string
	extensions = appendExt(extensions, hints.Extension)

	contentType := resp.Header.Get("Content-Type")
	extensions = appendExt(extensions, ExtensionForContentType(contentType))

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if fname := params["filename"]; fname != "" {
				extensions = appendExt(extensions, filepath.Ext(fname))
			}
		}
	}

	sourceURL := hints.URL
	if resp.Request != nil && resp.Request.URL != nil {
		sourceURL = resp.Request.URL.String()
		extensions = appendExt(extensions, filepath.Ext(resp.Request.URL.Path))
	}

	tmp, err := os.CreateTemp("", "convert-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("downloading body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	extensions = appendExt(extensions, sniffExtension(tmp.Name()))

	hints.URL = sourceURL
	if _, cs, err := mime.ParseMediaType(contentType); err == nil {
		if charset := cs["charset"]; charset != "" {
			hints.Charset = charset
		}
	}
	return e.convert(ctx, tmp.Name(), extensions, hints)
}

// convert runs the candidate extensions against the converter chain.
// Converter errors are recorded and the search continues; if every pair
// fails, one last plain-text read is attempted regardless of extension.
func (e *Engine) convert(ctx context.Context, path string, extensions []string, hints core.Hints) (*core.ConversionResult, error) {
	var lastErr error
	for _, ext := range extensions {
		h := hints
		h.Extension = ext
		for _, reg := range e.converters {
			res, err := reg.conv.TryConvert(ctx, path, h)
			if err != nil {
				lastErr = &core.ConversionError{Converter: reg.name, Err: err}
				e.cfg.Logger.Debug("converter failed",
					"converter", reg.name, "extension", ext, "path", path, "error", err)
				continue
			}
			if res != nil {
				res.Text = NormalizeText(res.Text)
				e.cfg.Logger.Debug("converted",
					"converter", reg.name, "extension", ext, "path", path)
				return res, nil
			}
		}
	}

	// Last resort: read it as plain text even without a usable extension.
	res, err := readPlainText(path, hints.Charset)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, &core.ExhaustedError{Path: path, Extensions: extensions, LastErr: lastErr}
	}
	res.Text = NormalizeText(res.Text)
	return res, nil
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// NormalizeText strips trailing whitespace from every line and collapses
// runs of three or more newlines down to two.
func NormalizeText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}

// decodeCharset converts bytes declared in the named charset to UTF-8.
// An empty or unrecognized name leaves the bytes untouched.
func decodeCharset(data []byte, name string) []byte {
	if name == "" {
		return data
	}
	enc, _ := charset.Lookup(name)
	if enc == nil {
		return data
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return out
}

// appendExt appends a non-empty extension, normalized to a leading dot.
// Duplicates are kept so the priority order stays intact.
func appendExt(extensions []string, ext string) []string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return extensions
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return append(extensions, ext)
}

// sniffExtension guesses an extension from the file's leading bytes.
// Returns "" when the file is unreadable or the type is unknown.
func sniffExtension(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return ""
	}
	ext := mt.Extension()
	if ext == ".bin" {
		return ""
	}
	return ext
}

// extByContentType maps the media types this engine cares about to the
// extension its converters are gated on. Consulted before the platform
// mime database so results stay stable across systems.
var extByContentType = map[string]string{
	"text/plain":    ".txt",
	"text/html":     ".html",
	"text/xml":      ".xml",
	"text/markdown": ".md",
	"text/csv":      ".csv",

	"application/xml":  ".xml",
	"application/pdf":  ".pdf",
	"application/json": ".json",

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
	"application/vnd.ms-excel": ".xls",

	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/wave":  ".wav",
	"audio/mpeg":  ".mp3",
	"audio/flac":  ".flac",
	"audio/x-m4a": ".m4a",
	"audio/mp4":   ".m4a",
}

// ExtensionForContentType maps a Content-Type header value to a file
// extension, or "" if nothing matches.
func ExtensionForContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.ToLower(contentType))
	}
	if ext, ok := extByContentType[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
