package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	name     string
	priority int
	accept   bool
	text     string
	err      error
	calls    int
}

func (f *fakeExtractor) Name() string                { return f.name }
func (f *fakeExtractor) Priority() int               { return f.priority }
func (f *fakeExtractor) QuickCheck(data []byte) bool { return f.accept }

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestRegistry_PriorityOrder(t *testing.T) {
	r := New()
	r.Register(&fakeExtractor{name: "plain", priority: 20})
	r.Register(&fakeExtractor{name: "rows", priority: 10})

	assert.Equal(t, []string{"rows", "plain"}, r.Names())
}

func TestRegistry_ExtractPreferred(t *testing.T) {
	rows := &fakeExtractor{name: "rows", priority: 10, accept: true, text: "1 MEX"}
	plain := &fakeExtractor{name: "plain", priority: 20, accept: true, text: "other"}

	r := New()
	r.Register(plain)
	r.Register(rows)

	text, backend, attempts, err := r.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "1 MEX", text)
	assert.Equal(t, "rows", backend)
	assert.Equal(t, 0, plain.calls)
	require.Len(t, attempts, 1)
	assert.Equal(t, "ok", attempts[0].Outcome())
}

func TestRegistry_ExtractFallback(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeExtractor
	}{
		{"error", &fakeExtractor{name: "rows", priority: 10, accept: true, err: errors.New("boom")}},
		{"blank output", &fakeExtractor{name: "rows", priority: 10, accept: true, text: " \n "}},
		{"quick check", &fakeExtractor{name: "rows", priority: 10, accept: false, text: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.Register(tt.primary)
			r.Register(&fakeExtractor{name: "plain", priority: 20, accept: true, text: "fallback"})

			text, backend, attempts, err := r.Extract(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, "fallback", text)
			assert.Equal(t, "plain", backend)
			require.Len(t, attempts, 2)
			assert.NotEqual(t, "ok", attempts[0].Outcome())
			assert.Equal(t, "ok", attempts[1].Outcome())
		})
	}
}

func TestRegistry_ExtractAllFail(t *testing.T) {
	r := New()
	r.Register(&fakeExtractor{name: "rows", priority: 10, accept: true, err: errors.New("bad xref")})
	r.Register(&fakeExtractor{name: "plain", priority: 20, accept: true})

	_, _, _, err := r.Extract(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "rows: bad xref")
	assert.Contains(t, err.Error(), "plain: no text extracted")
}

func TestRegistry_ExtractNoBackend(t *testing.T) {
	r := New()
	r.Register(&fakeExtractor{name: "rows", priority: 10})

	_, _, _, err := r.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoExtractor)

	_, _, _, err = New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoExtractor)
}

func TestRegistry_ExtractCancelled(t *testing.T) {
	rows := &fakeExtractor{name: "rows", priority: 10, accept: true, text: "x"}
	r := New()
	r.Register(rows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := r.Extract(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, rows.calls)
}

func TestRegistry_Select(t *testing.T) {
	r := New()
	r.Register(&fakeExtractor{name: "rows", priority: 10})
	r.Register(&fakeExtractor{name: "plain", priority: 20})

	sel, err := r.Select([]string{"plain", " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, sel.Names())

	_, err = r.Select([]string{"ocr"})
	assert.Error(t, err)
}
