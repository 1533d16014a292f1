package convert

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/adsharma/knowledge-graph-of-thoughts/core"
)

// PlainTextConverter reads any file with a known extension as text.
// It sits last in the chain and catches everything the format-specific
// converters declined.
type PlainTextConverter struct{}

// TryConvert reads the file verbatim. Declines when no extension hint is
// available, so binary blobs without a recognized type don't end up
// rendered as garbage.
func (c *PlainTextConverter) TryConvert(ctx context.Context, path string, hints core.Hints) (*core.ConversionResult, error) {
	if hints.Extension == "" {
		return nil, nil
	}
	return readPlainText(path, hints.Charset)
}

// readPlainText decodes a file as text, failing on binary content. A
// declared charset is converted to UTF-8 first.
func readPlainText(path, charsetName string) (*core.ConversionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = decodeCharset(data, charsetName)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: not valid UTF-8 text", path)
	}
	return &core.ConversionResult{Text: string(data)}, nil
}
