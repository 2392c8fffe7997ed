package document

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// stubConverter returns canned bytes or a canned error
type stubConverter struct {
	output []byte
	err    error
	calls  int
}

func (c *stubConverter) Convert(ctx context.Context, native []byte, baseName string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.output, nil
}

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRenderer_Render(t *testing.T) {
	logger := zap.NewNop()
	sheet := &SheetData{
		Cells: map[string]any{"B2": "Dossier test"},
		Table: &Table{StartRow: 5, Rows: [][]any{{"ligne", "valeur"}}},
	}

	t.Run("native output", func(t *testing.T) {
		renderer := NewRenderer(&stubConverter{}, logger)
		doc, err := renderer.Render(context.Background(), KindCaseSynthesis, writeTemplate(t), sheet, FormatNative, "synthese_case-1")
		require.NoError(t, err)

		assert.Equal(t, MIMENative, doc.MIMEType)
		assert.Equal(t, "synthese_case-1.xlsx", doc.Filename)
		assert.Equal(t, FormatNative, doc.Format)

		filled, err := excelize.OpenReader(bytes.NewReader(doc.Content))
		require.NoError(t, err)
		defer filled.Close()

		sheetName := filled.GetSheetList()[0]
		value, err := filled.GetCellValue(sheetName, "B2")
		require.NoError(t, err)
		assert.Equal(t, "Dossier test", value)

		value, err = filled.GetCellValue(sheetName, "A5")
		require.NoError(t, err)
		assert.Equal(t, "ligne", value)
	})

	t.Run("pdf output goes through the converter", func(t *testing.T) {
		converter := &stubConverter{output: []byte("%PDF-fake")}
		renderer := NewRenderer(converter, logger)

		doc, err := renderer.Render(context.Background(), KindCaseSynthesis, writeTemplate(t), sheet, FormatPDF, "synthese_case-1")
		require.NoError(t, err)

		assert.Equal(t, 1, converter.calls)
		assert.Equal(t, MIMEPDF, doc.MIMEType)
		assert.Equal(t, "synthese_case-1.pdf", doc.Filename)
		assert.Equal(t, []byte("%PDF-fake"), doc.Content)
	})

	t.Run("conversion failure keeps the native buffer", func(t *testing.T) {
		converter := &stubConverter{err: errors.New("soffice exited 1")}
		renderer := NewRenderer(converter, logger)

		_, err := renderer.Render(context.Background(), KindCaseSynthesis, writeTemplate(t), sheet, FormatPDF, "synthese_case-1")
		require.Error(t, err)

		var conversionErr *ConversionError
		require.True(t, errors.As(err, &conversionErr))
		assert.NotEmpty(t, conversionErr.NativeOutput)

		filled, openErr := excelize.OpenReader(bytes.NewReader(conversionErr.NativeOutput))
		require.NoError(t, openErr)
		filled.Close()
	})

	t.Run("missing template is a render error", func(t *testing.T) {
		renderer := NewRenderer(&stubConverter{}, logger)

		_, err := renderer.Render(context.Background(), KindCaseSynthesis, filepath.Join(t.TempDir(), "absent.xlsx"), sheet, FormatNative, "synthese_case-1")
		require.Error(t, err)

		var renderErr *RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, KindCaseSynthesis, renderErr.Kind)
	})
}
