package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// TemplateStore manages the custom and default template directories. Its
// Exists check is the file-existence capability the template resolver
// runs against, a fresh stat per call so an uploaded custom template is
// picked up immediately.
type TemplateStore struct {
	customDir  string
	defaultDir string
	logger     *zap.Logger
}

// NewTemplateStore creates a new TemplateStore and makes sure both
// directories exist
func NewTemplateStore(customDir, defaultDir string, logger *zap.Logger) (*TemplateStore, error) {
	for _, dir := range []string{customDir, defaultDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create template dir %s: %w", dir, err)
		}
	}
	return &TemplateStore{
		customDir:  customDir,
		defaultDir: defaultDir,
		logger:     logger,
	}, nil
}

// CustomDir returns the custom override directory
func (s *TemplateStore) CustomDir() string { return s.customDir }

// DefaultDir returns the built-in template directory
func (s *TemplateStore) DefaultDir() string { return s.defaultDir }

// Exists reports whether path points at a regular file
func (s *TemplateStore) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// InstallCustom writes an administrator-uploaded template override. The
// file name is sanitized to keep the write inside the custom directory.
func (s *TemplateStore) InstallCustom(fileName string, content []byte) (string, error) {
	safeName := SanitizeFileName(fileName)
	if safeName == "" {
		return "", fmt.Errorf("invalid template file name: %q", fileName)
	}

	path := filepath.Join(s.customDir, safeName)
	if err := os.WriteFile(path, content, 0644); err != nil {
		s.logger.Error("Failed to install custom template",
			zap.String("path", path),
			zap.Error(err))
		return "", fmt.Errorf("failed to install custom template: %w", err)
	}

	s.logger.Info("Installed custom template", zap.String("path", path))
	return path, nil
}

// RemoveCustom deletes a custom override so the default applies again.
// Idempotent, removing an absent override succeeds.
func (s *TemplateStore) RemoveCustom(fileName string) error {
	safeName := SanitizeFileName(fileName)
	if safeName == "" {
		return fmt.Errorf("invalid template file name: %q", fileName)
	}

	path := filepath.Join(s.customDir, safeName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove custom template: %w", err)
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// SanitizeFileName strips path separators and special characters to
// prevent directory traversal
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeNameChars.ReplaceAllString(name, "")
}
