// Package pdfinfo inspects downloaded PDF documents: page count and
// structural validation. Two engines back the same interface so a
// document one library chokes on can still be handled by the other.
package pdfinfo

import "fmt"

// Engine names accepted by Select.
const (
	EnginePDFCPU     = "pdfcpu"
	EngineLedongthuc = "ledongthuc"
	EngineAuto       = "auto"
)

// Engine answers basic questions about an in-memory PDF document.
type Engine interface {
	// Name identifies the backing library.
	Name() string
	// PageCount returns the number of pages in the document.
	PageCount(data []byte) (int, error)
	// Validate checks that the bytes parse as a PDF document.
	Validate(data []byte) error
}

// Select returns the engine for the given name. EngineAuto prefers
// pdfcpu and falls back to ledongthuc when pdfcpu cannot read the
// document.
func Select(name string) (Engine, error) {
	switch name {
	case EnginePDFCPU:
		return pdfcpuEngine{}, nil
	case EngineLedongthuc:
		return ledongthucEngine{}, nil
	case EngineAuto, "":
		return autoEngine{primary: pdfcpuEngine{}, fallback: ledongthucEngine{}}, nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", name)
	}
}

type autoEngine struct {
	primary  Engine
	fallback Engine
}

func (autoEngine) Name() string { return EngineAuto }

func (e autoEngine) PageCount(data []byte) (int, error) {
	n, err := e.primary.PageCount(data)
	if err == nil {
		return n, nil
	}
	n, ferr := e.fallback.PageCount(data)
	if ferr != nil {
		return 0, fmt.Errorf("%s: %w (fallback %s: %v)", e.primary.Name(), err, e.fallback.Name(), ferr)
	}
	return n, nil
}

func (e autoEngine) Validate(data []byte) error {
	err := e.primary.Validate(data)
	if err == nil {
		return nil
	}
	if ferr := e.fallback.Validate(data); ferr != nil {
		return fmt.Errorf("%s: %w (fallback %s: %v)", e.primary.Name(), err, e.fallback.Name(), ferr)
	}
	return nil
}
