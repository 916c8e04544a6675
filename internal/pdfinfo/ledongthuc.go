package pdfinfo

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ledongthucEngine backs the interface with ledongthuc/pdf, which is
// more forgiving about cross-reference damage than pdfcpu.
type ledongthucEngine struct{}

func (ledongthucEngine) Name() string { return EngineLedongthuc }

func (ledongthucEngine) PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	return r.NumPage(), nil
}

func (e ledongthucEngine) Validate(data []byte) error {
	n, err := e.PageCount(data)
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}
