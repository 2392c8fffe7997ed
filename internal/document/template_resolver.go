package document

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// DocumentKind selects which template family a render uses
type DocumentKind string

const (
	KindFeeConvention    DocumentKind = "fee-convention"
	KindPaymentReceipt   DocumentKind = "payment-receipt"
	KindCaseSynthesis    DocumentKind = "case-synthesis"
	KindInformationSheet DocumentKind = "information-sheet"
)

// templateFiles maps each kind to its template file name
var templateFiles = map[DocumentKind]string{
	KindFeeConvention:    "convention_honoraires.xlsx",
	KindPaymentReceipt:   "recu_paiement.xlsx",
	KindCaseSynthesis:    "synthese_dossier.xlsx",
	KindInformationSheet: "fiche_information.xlsx",
}

// TemplateFileName returns the template file name for a kind, false when
// the kind is unknown
func TemplateFileName(kind DocumentKind) (string, bool) {
	fileName, ok := templateFiles[kind]
	return fileName, ok
}

// TemplateLocator is the file-existence capability the resolver runs
// against
type TemplateLocator interface {
	Exists(path string) bool
}

// TemplateResolver picks the on-disk template for a document kind. A
// per-installation custom override always wins over the built-in default.
// Resolution happens on every call, never cached: an administrator
// uploading a new custom template takes effect on the next render without
// a restart.
type TemplateResolver struct {
	customDir  string
	defaultDir string
	locator    TemplateLocator
	logger     *zap.Logger
}

// NewTemplateResolver creates a new TemplateResolver
func NewTemplateResolver(customDir, defaultDir string, locator TemplateLocator, logger *zap.Logger) *TemplateResolver {
	return &TemplateResolver{
		customDir:  customDir,
		defaultDir: defaultDir,
		locator:    locator,
		logger:     logger,
	}
}

// Resolve returns the template path for a kind, or ErrTemplateNotFound
// when neither the custom nor the default template exists
func (r *TemplateResolver) Resolve(kind DocumentKind) (string, error) {
	fileName, ok := templateFiles[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	custom := filepath.Join(r.customDir, fileName)
	if r.locator.Exists(custom) {
		r.logger.Debug("Resolved custom template",
			zap.String("kind", string(kind)),
			zap.String("path", custom))
		return custom, nil
	}

	fallback := filepath.Join(r.defaultDir, fileName)
	if r.locator.Exists(fallback) {
		r.logger.Debug("Resolved default template",
			zap.String("kind", string(kind)),
			zap.String("path", fallback))
		return fallback, nil
	}

	r.logger.Warn("No template found",
		zap.String("kind", string(kind)),
		zap.String("custom", custom),
		zap.String("default", fallback))
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, kind)
}
