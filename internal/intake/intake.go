// Package intake turns an uploaded document into the text read by the
// schedule parser. It sniffs compression and container formats, unpacks
// them and hands PDF bytes to the extraction backends.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zlib"

	"itinerary_parser/internal/extractor"
	"itinerary_parser/internal/registry"
	"itinerary_parser/pkg/logger"
)

var (
	// ErrUnsupportedInput is returned for bodies that cannot be read as a
	// schedule document.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrInputTooLarge is returned when a body or its decompressed form
	// exceeds the configured limit.
	ErrInputTooLarge = errors.New("input too large")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zipMagic  = []byte("PK\x03\x04")
	utf8BOM   = []byte("\xef\xbb\xbf")
)

// Decoded is the text of a document and where it came from.
type Decoded struct {
	Text     string
	Source   string // Provenance tag, e.g. "gzip+pdf".
	Backend  string // Extraction backend for PDF input.
	Attempts []registry.Attempt
}

// Decoder converts raw bodies to text.
type Decoder struct {
	extractors *registry.Registry
	maxBytes   int64
	log        logger.Logger
}

// NewDecoder creates a decoder. maxBytes bounds the size of the body after
// decompression; zero or less disables the limit. A nil registry uses the
// default one.
func NewDecoder(extractors *registry.Registry, maxBytes int64, log logger.Logger) *Decoder {
	if extractors == nil {
		extractors = registry.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Decoder{extractors: extractors, maxBytes: maxBytes, log: log}
}

// Decode sniffs data and returns its text. contentType is the declared
// media type, if any; it selects raw deflate and JSON bodies.
func (d *Decoder) Decode(ctx context.Context, data []byte, contentType string) (*Decoded, error) {
	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	body, prefix, err := d.decompress(data, contentType)
	if err != nil {
		return nil, err
	}

	switch {
	case prefix == "" && strings.Contains(contentType, "application/json"):
		text, err := jsonText(body)
		if err != nil {
			return nil, err
		}
		return &Decoded{Text: text, Source: "json"}, nil

	case extractor.IsPDF(body):
		text, backend, attempts, err := d.extractors.Extract(ctx, body)
		for _, a := range attempts {
			d.log.Debug("pdf extraction attempt", "backend", a.Backend, "outcome", a.Outcome(), "chars", a.Chars, "error", a.Err)
		}
		if err != nil {
			return nil, err
		}
		return &Decoded{Text: text, Source: prefix + "pdf", Backend: backend, Attempts: attempts}, nil

	case bytes.HasPrefix(body, zipMagic):
		text, err := zipText(body, d.maxBytes)
		if err != nil {
			return nil, err
		}
		return &Decoded{Text: text, Source: prefix + "zip"}, nil

	default:
		return &Decoded{Text: plainText(body), Source: prefix + "text"}, nil
	}
}

// decompress unwraps gzip, zlib or raw deflate bodies and returns the
// provenance prefix for the layer it removed.
func (d *Decoder) decompress(data []byte, contentType string) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		body, err := d.readLimited(zr)
		if err != nil {
			return nil, "", fmt.Errorf("gzip: %w", err)
		}
		return body, "gzip+", nil

	case isZlib(data):
		body, err := d.inflateZlib(data)
		if err == nil {
			return body, "zlib+", nil
		}
		if errors.Is(err, ErrInputTooLarge) {
			return nil, "", err
		}
		// Two bytes that pass the header checksum by chance, e.g. "x^".
		d.log.Debug("zlib header without zlib stream, reading as is", "error", err)
		return data, "", nil

	case isRawDeflate(contentType):
		fr := flate.NewReader(bytes.NewReader(data))
		defer fr.Close()
		body, err := d.readLimited(fr)
		if err != nil {
			return nil, "", fmt.Errorf("deflate: %w", err)
		}
		return body, "deflate+", nil
	}

	return data, "", nil
}

func (d *Decoder) inflateZlib(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return d.readLimited(zr)
}

func (d *Decoder) readLimited(r io.Reader) ([]byte, error) {
	if d.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > d.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes after decompression", ErrInputTooLarge, d.maxBytes)
	}
	return body, nil
}

// isZlib checks the zlib header: deflate method and a valid FCHECK.
func isZlib(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	cmf, flg := int(data[0]), int(data[1])
	return cmf&0x0F == 8 && (cmf*256+flg)%31 == 0
}

// isRawDeflate reports whether the declared type announces a headerless
// deflate stream.
func isRawDeflate(contentType string) bool {
	return strings.Contains(contentType, "application/zlib") ||
		strings.Contains(contentType, "application/deflate")
}

func jsonText(body []byte) (string, error) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("%w: json body: %w", ErrUnsupportedInput, err)
	}
	return req.Text, nil
}

var firstNumber = regexp.MustCompile(`\d+`)

// zipText concatenates the .txt members of an archive, ordered by the
// first number in their names (page1.txt, page2.txt, ..., page10.txt).
func zipText(body []byte, maxBytes int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("zip: %w", err)
	}

	var files []*zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return memberNumber(files[i].Name) < memberNumber(files[j].Name)
	})

	var parts []string
	var total int64
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("zip %s: %w", f.Name, err)
		}
		var src io.Reader = rc
		if maxBytes > 0 {
			src = io.LimitReader(rc, maxBytes-total+1)
		}
		content, err := io.ReadAll(src)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("zip %s: %w", f.Name, err)
		}
		total += int64(len(content))
		if maxBytes > 0 && total > maxBytes {
			return "", fmt.Errorf("%w: archive members exceed %d bytes", ErrInputTooLarge, maxBytes)
		}
		parts = append(parts, plainText(content))
	}

	return strings.Join(parts, "\n"), nil
}

func memberNumber(name string) int {
	n, err := strconv.Atoi(firstNumber.FindString(name))
	if err != nil {
		return 0
	}
	return n
}

// plainText decodes UTF-8, dropping invalid bytes and a leading BOM.
func plainText(body []byte) string {
	return strings.ToValidUTF8(string(bytes.TrimPrefix(body, utf8BOM)), "")
}
