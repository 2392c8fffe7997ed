package document

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// OutputFormat selects the rendered document format
type OutputFormat string

const (
	FormatNative OutputFormat = "native"
	FormatPDF    OutputFormat = "pdf"
)

// MIME types handed to the HTTP layer for attachment delivery
const (
	MIMENative = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPDF    = "application/pdf"
)

// RenderedDocument is the final byte buffer plus the delivery metadata the
// HTTP layer needs
type RenderedDocument struct {
	Content  []byte
	MIMEType string
	Filename string
	Format   OutputFormat
}

// Converter turns a native workbook buffer into a PDF
type Converter interface {
	Convert(ctx context.Context, native []byte, baseName string) ([]byte, error)
}

// Renderer feeds a resolved template and a laid-out sheet into the
// workbook engine. It performs no business logic and never mutates its
// input, every concurrent render works on its own template handle.
type Renderer struct {
	converter Converter
	logger    *zap.Logger
}

// NewRenderer creates a new Renderer
func NewRenderer(converter Converter, logger *zap.Logger) *Renderer {
	return &Renderer{
		converter: converter,
		logger:    logger,
	}
}

// Render fills templatePath with sheet and returns the document in the
// requested format. Engine failures surface as *RenderError, a failed PDF
// conversion as *ConversionError still carrying the native buffer.
func (r *Renderer) Render(ctx context.Context, kind DocumentKind, templatePath string, sheet *SheetData, format OutputFormat, baseName string) (*RenderedDocument, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return nil, &RenderError{Kind: kind, Stage: "open template", Wrapped: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &RenderError{Kind: kind, Stage: "open template", Wrapped: fmt.Errorf("template has no sheets")}
	}
	sheetName := sheets[0]

	for cell, value := range sheet.Cells {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return nil, &RenderError{Kind: kind, Stage: "fill cells", Wrapped: err}
		}
	}

	if sheet.Table != nil {
		for i, row := range sheet.Table.Rows {
			for j, value := range row {
				cell, err := excelize.CoordinatesToCellName(j+1, sheet.Table.StartRow+i)
				if err != nil {
					return nil, &RenderError{Kind: kind, Stage: "fill rows", Wrapped: err}
				}
				if err := f.SetCellValue(sheetName, cell, value); err != nil {
					return nil, &RenderError{Kind: kind, Stage: "fill rows", Wrapped: err}
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, &RenderError{Kind: kind, Stage: "serialize", Wrapped: err}
	}
	native := buf.Bytes()

	if format != FormatPDF {
		r.logger.Debug("Rendered native document",
			zap.String("kind", string(kind)),
			zap.Int("size", len(native)))
		return &RenderedDocument{
			Content:  native,
			MIMEType: MIMENative,
			Filename: baseName + ".xlsx",
			Format:   FormatNative,
		}, nil
	}

	pdf, err := r.converter.Convert(ctx, native, baseName)
	if err != nil {
		r.logger.Error("PDF conversion failed",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, &ConversionError{Wrapped: err, NativeOutput: native}
	}

	r.logger.Debug("Rendered PDF document",
		zap.String("kind", string(kind)),
		zap.Int("size", len(pdf)))
	return &RenderedDocument{
		Content:  pdf,
		MIMEType: MIMEPDF,
		Filename: baseName + ".pdf",
		Format:   FormatPDF,
	}, nil
}
