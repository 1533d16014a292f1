package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

const transcriptionTimeout = 120 * time.Second

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".m4a":  true,
}

// AudioConverter transcribes audio files through an OpenAI-compatible
// transcription endpoint.
type AudioConverter struct {
	Endpoint string
	APIKey   string
	Model    string

	client *http.Client
}

// TryConvert handles .wav, .mp3, .flac and .m4a files.
func (c *AudioConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	if !audioExtensions[strings.ToLower(hints.Extension)] {
		return nil, nil
	}
	text, err := c.transcribe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &core.ConversionResult{Text: text}, nil
}

// transcribe uploads the file as multipart form data and returns the
// transcription text.
func (c *AudioConverter) transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("reading audio file: %w", err)
	}
	if err := mw.WriteField("model", c.Model); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: transcriptionTimeout}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling transcription API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcription API returned %d: %s", resp.StatusCode, string(msg))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding transcription response: %w", err)
	}
	return out.Text, nil
}
