package pdfinfo

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpuEngine reads documents with pdfcpu in relaxed validation mode;
// government scans are frequently not strictly conformant.
type pdfcpuEngine struct{}

func (pdfcpuEngine) Name() string { return EnginePDFCPU }

func (pdfcpuEngine) readContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

func (e pdfcpuEngine) PageCount(data []byte) (int, error) {
	ctx, err := e.readContext(data)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

func (e pdfcpuEngine) Validate(data []byte) error {
	_, err := e.readContext(data)
	return err
}
