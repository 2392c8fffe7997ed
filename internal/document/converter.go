package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// LibreOfficeConverter converts a native workbook into a PDF through a
// headless LibreOffice run. Each call works in its own temp directory so
// concurrent conversions never share state.
type LibreOfficeConverter struct {
	binary  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewLibreOfficeConverter creates a new converter. binary defaults to
// "soffice" when empty.
func NewLibreOfficeConverter(binary string, timeout time.Duration, logger *zap.Logger) *LibreOfficeConverter {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LibreOfficeConverter{
		binary:  binary,
		timeout: timeout,
		logger:  logger,
	}
}

// Convert writes the native buffer to disk, runs the conversion and reads
// the PDF back. The result is opened once to confirm it has at least one
// page before being returned.
func (c *LibreOfficeConverter) Convert(ctx context.Context, native []byte, baseName string) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "docgen-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	inPath := filepath.Join(workDir, baseName+".xlsx")
	if err := os.WriteFile(inPath, native, 0644); err != nil {
		return nil, fmt.Errorf("failed to write native file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary,
		"--headless", "--convert-to", "pdf", "--outdir", workDir, inPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Error("LibreOffice conversion failed",
			zap.String("base_name", baseName),
			zap.ByteString("output", output),
			zap.Error(err))
		return nil, fmt.Errorf("conversion command failed: %w", err)
	}

	outPath := filepath.Join(workDir, baseName+".pdf")
	pdf, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("conversion produced no output: %w", err)
	}

	if err := checkPDF(pdf); err != nil {
		return nil, err
	}

	c.logger.Debug("Converted document to PDF",
		zap.String("base_name", baseName),
		zap.Int("size", len(pdf)))
	return pdf, nil
}

// checkPDF opens the converted buffer and rejects empty documents
func checkPDF(pdf []byte) error {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return fmt.Errorf("converted output is not a readable PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return fmt.Errorf("converted PDF has no pages")
	}
	return nil
}
