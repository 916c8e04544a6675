package pdfinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	name  string
	pages int
	err   error
}

func (s stubEngine) Name() string { return s.name }

func (s stubEngine) PageCount([]byte) (int, error) {
	return s.pages, s.err
}

func (s stubEngine) Validate([]byte) error { return s.err }

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		engine    string
		wantName  string
		expectErr bool
	}{
		{name: "pdfcpu", engine: EnginePDFCPU, wantName: EnginePDFCPU},
		{name: "ledongthuc", engine: EngineLedongthuc, wantName: EngineLedongthuc},
		{name: "auto", engine: EngineAuto, wantName: EngineAuto},
		{name: "empty defaults to auto", engine: "", wantName: EngineAuto},
		{name: "unknown engine", engine: "mupdf", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := Select(tt.engine)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, eng.Name())
		})
	}
}

func TestAutoEngineFallback(t *testing.T) {
	broken := stubEngine{name: "broken", err: errors.New("xref damaged")}
	working := stubEngine{name: "working", pages: 12}

	eng := autoEngine{primary: broken, fallback: working}
	n, err := eng.PageCount(nil)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, eng.Validate(nil))
}

func TestAutoEnginePrimaryPreferred(t *testing.T) {
	primary := stubEngine{name: "primary", pages: 7}
	fallback := stubEngine{name: "fallback", pages: 99}

	eng := autoEngine{primary: primary, fallback: fallback}
	n, err := eng.PageCount(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestAutoEngineBothFailing(t *testing.T) {
	eng := autoEngine{
		primary:  stubEngine{name: "a", err: errors.New("bad header")},
		fallback: stubEngine{name: "b", err: errors.New("bad trailer")},
	}
	_, err := eng.PageCount(nil)
	assert.Error(t, err)
	assert.Error(t, eng.Validate(nil))
}

func TestEnginesRejectGarbage(t *testing.T) {
	garbage := []byte("this is not a pdf")

	for _, name := range []string{EnginePDFCPU, EngineLedongthuc} {
		t.Run(name, func(t *testing.T) {
			eng, err := Select(name)
			require.NoError(t, err)
			_, err = eng.PageCount(garbage)
			assert.Error(t, err)
			assert.Error(t, eng.Validate(garbage))
		})
	}
}
