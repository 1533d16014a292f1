// Embeddings renderer: chunks the converted text and calls an
// Ollama-compatible embedding API for each chunk. Output is a
// human-readable .embeddings.txt file.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
	"github.com/adsharma/knowledge-graph-of-thoughts/core/chunk"
)

const (
	defaultOllamaURL = "http://localhost:11434/api/embeddings"
	embeddingTimeout = 60 * time.Second
)

// OllamaClient implements core.Embedder against an Ollama server.
type OllamaClient struct {
	Endpoint string
	client   *http.Client
}

// NewOllamaClient creates an embeddings client. An empty endpoint uses
// the local Ollama default.
func NewOllamaClient(endpoint string) *OllamaClient {
	if endpoint == "" {
		endpoint = defaultOllamaURL
	}
	return &OllamaClient{
		Endpoint: endpoint,
		client:   &http.Client{Timeout: embeddingTimeout},
	}
}

// ollamaRequest is the request body for the Ollama embeddings API.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaResponse is the response body from the Ollama embeddings API.
type ollamaResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed calls the Ollama embedding API for a single text input.
func (c *OllamaClient) Embed(ctx context.Context, text string, model string) ([]float64, error) {
	bodyBytes, err := json.Marshal(ollamaRequest{Model: model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, string(body))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding Ollama response: %w", err)
	}
	return out.Embedding, nil
}

// EmbeddingsRenderer generates embeddings from text chunks.
type EmbeddingsRenderer struct {
	Model     string
	ChunkSize int
	Embedder  core.Embedder
}

// NewEmbeddingsRenderer creates an EmbeddingsRenderer backed by the
// local Ollama server.
func NewEmbeddingsRenderer(model string, chunkSize int) *EmbeddingsRenderer {
	return &EmbeddingsRenderer{
		Model:     model,
		ChunkSize: chunkSize,
		Embedder:  NewOllamaClient(""),
	}
}

// Render chunks the text, embeds each chunk, and produces the
// human-readable .embeddings.txt output.
func (r *EmbeddingsRenderer) Render(res core.ConversionResult, meta core.SourceMeta) ([]byte, error) {
	chunker := chunk.New(r.ChunkSize)
	chunks := chunker.Chunk(res.Text)

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no content to embed")
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "# source: %s\n", meta.Source)
	fmt.Fprintf(&buf, "# model: %s\n", r.Model)
	fmt.Fprintf(&buf, "# chunk_size: %d\n\n", r.ChunkSize)

	ctx := context.Background()
	for _, ck := range chunks {
		embedding, err := r.Embedder.Embed(ctx, ck.Text, r.Model)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", ck.Index+1, err)
		}

		fmt.Fprintf(&buf, "--- chunk %d (%d words) ---\n", ck.Index+1, ck.Words)
		fmt.Fprintf(&buf, "TEXT:\n%s\n\n", ck.Text)

		vecStrs := make([]string, len(embedding))
		for j, v := range embedding {
			vecStrs[j] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(&buf, "VECTOR:\n[%s]\n\n", strings.Join(vecStrs, ", "))
	}

	return []byte(buf.String()), nil
}

// Extension returns the file extension for embeddings output.
func (r *EmbeddingsRenderer) Extension() string {
	return ".embeddings.txt"
}
