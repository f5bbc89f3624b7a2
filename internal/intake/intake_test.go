package intake

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary_parser/internal/registry"
)

const sampleLine = "1 MEX 0600 LAX 1030 1 2 3  260126 220226"

type fakePDF struct {
	text string
	err  error
}

func (f *fakePDF) Name() string                { return "fake" }
func (f *fakePDF) Priority() int               { return 1 }
func (f *fakePDF) QuickCheck(data []byte) bool { return true }

func (f *fakePDF) Extract(ctx context.Context, data []byte) (string, error) {
	return f.text, f.err
}

func fakeRegistry(e registry.Extractor) *registry.Registry {
	r := registry.New()
	r.Register(e)
	return r
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zlibBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func deflateBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecode_Sources(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")

	tests := []struct {
		name        string
		data        func(t *testing.T) []byte
		contentType string
		source      string
		text        string
	}{
		{"plain text", func(t *testing.T) []byte { return []byte(sampleLine) }, "text/plain", "text", sampleLine},
		{"gzip text", func(t *testing.T) []byte { return gzipBytes(t, []byte(sampleLine)) }, "", "gzip+text", sampleLine},
		{"zlib text", func(t *testing.T) []byte { return zlibBytes(t, []byte(sampleLine)) }, "", "zlib+text", sampleLine},
		{"raw deflate", func(t *testing.T) []byte { return deflateBytes(t, []byte(sampleLine)) }, "application/deflate", "deflate+text", sampleLine},
		{"raw deflate zlib type", func(t *testing.T) []byte { return deflateBytes(t, []byte(sampleLine)) }, "application/zlib", "deflate+text", sampleLine},
		{"json", func(t *testing.T) []byte { return []byte(`{"text":"` + sampleLine + `"}`) }, "application/json; charset=utf-8", "json", sampleLine},
		{"json missing text", func(t *testing.T) []byte { return []byte(`{"other":1}`) }, "application/json", "json", ""},
		{"compressed json read as text", func(t *testing.T) []byte { return gzipBytes(t, []byte(`{"text":"x"}`)) }, "application/json", "gzip+text", `{"text":"x"}`},
		{"pdf", func(t *testing.T) []byte { return pdf }, "application/pdf", "pdf", "extracted"},
		{"gzip pdf", func(t *testing.T) []byte { return gzipBytes(t, pdf) }, "application/octet-stream", "gzip+pdf", "extracted"},
		{"zlib lookalike text", func(t *testing.T) []byte { return []byte("x^ not compressed") }, "", "text", "x^ not compressed"},
		{"invalid utf8 dropped", func(t *testing.T) []byte { return []byte("MEX\xff LAX") }, "", "text", "MEX LAX"},
		{"bom dropped", func(t *testing.T) []byte { return []byte("\xef\xbb\xbfMEX") }, "", "text", "MEX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(fakeRegistry(&fakePDF{text: "extracted"}), 0, nil)

			got, err := d.Decode(context.Background(), tt.data(t), tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.source, got.Source)
			assert.Equal(t, tt.text, got.Text)
		})
	}
}

func TestDecode_PDFBackend(t *testing.T) {
	d := NewDecoder(fakeRegistry(&fakePDF{text: sampleLine}), 0, nil)

	got, err := d.Decode(context.Background(), []byte("%PDF-1.7"), "")
	require.NoError(t, err)
	assert.Equal(t, "fake", got.Backend)
	require.Len(t, got.Attempts, 1)
	assert.Equal(t, "ok", got.Attempts[0].Outcome())
}

func TestDecode_PDFExtractionFails(t *testing.T) {
	d := NewDecoder(fakeRegistry(&fakePDF{err: errors.New("broken xref")}), 0, nil)

	_, err := d.Decode(context.Background(), []byte("%PDF-1.7"), "")
	assert.ErrorIs(t, err, registry.ErrExtractionFailed)
}

func TestDecode_ZipOrdering(t *testing.T) {
	data := zipBytes(t, map[string]string{
		"page10.txt": "ten",
		"page2.txt":  "two",
		"page1.txt":  "one",
		"cover.txt":  "cover",
		"notes.md":   "skipped",
	})

	d := NewDecoder(registry.New(), 0, nil)
	got, err := d.Decode(context.Background(), data, "application/zip")
	require.NoError(t, err)
	assert.Equal(t, "zip", got.Source)
	assert.Equal(t, "cover\none\ntwo\nten", got.Text)

	got, err = d.Decode(context.Background(), gzipBytes(t, data), "")
	require.NoError(t, err)
	assert.Equal(t, "gzip+zip", got.Source)
}

func TestDecode_InvalidJSON(t *testing.T) {
	d := NewDecoder(registry.New(), 0, nil)

	_, err := d.Decode(context.Background(), []byte(`{"text":`), "application/json")
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestDecode_CorruptGzip(t *testing.T) {
	d := NewDecoder(registry.New(), 0, nil)

	data := gzipBytes(t, []byte(sampleLine))
	_, err := d.Decode(context.Background(), data[:len(data)/2], "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestDecode_Limits(t *testing.T) {
	big := []byte(strings.Repeat("A", 1024))

	tests := []struct {
		name string
		data []byte
	}{
		{"raw body", big},
		{"gzip", gzipBytes(t, big)},
		{"zlib", zlibBytes(t, big)},
		{"zip", zipBytes(t, map[string]string{"1.txt": string(big[:300]), "2.txt": string(big[:300])})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(registry.New(), 512, nil)
			_, err := d.Decode(context.Background(), tt.data, "")
			assert.ErrorIs(t, err, ErrInputTooLarge)
		})
	}
}
