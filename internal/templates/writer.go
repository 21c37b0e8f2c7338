// Package templates renders and reads back the HTML email documents used as
// Signaturit branding templates.
//
// Generate builds a complete document from a style.Model and body text.
// Parse recovers the style and body text from a document, including ones
// that were not produced here. Minify and Validate prepare a document for
// persistence, and PlainText renders the text/plain alternative.
package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	ferrors "github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/errors"
)

// WriteExport writes an exported document to relativePath under dir.
//
// The path must stay inside dir and parent directories are created as
// needed. An existing file is only replaced when overwrite is set. The
// written file is readable by its owner only.
func WriteExport(dir, relativePath, content string, overwrite bool) (string, error) {
	if dir == "" {
		return "", ferrors.ValidationError("export directory is required").Build()
	}
	if relativePath == "" {
		return "", ferrors.ValidationError("export path is required").Build()
	}

	cleanRel := filepath.Clean(relativePath)
	if filepath.IsAbs(cleanRel) || strings.HasPrefix(cleanRel, "..") {
		return "", ferrors.ValidationError("export path must be relative").
			WithContext("path", relativePath).
			Build()
	}

	fullPath := filepath.Join(dir, cleanRel)
	rel, err := filepath.Rel(dir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", ferrors.ValidationError("export path escapes the export directory").
			WithContext("path", relativePath).
			Build()
	}

	if err = os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "create export directory").Build()
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	// #nosec G304 -- fullPath is validated to stay under dir.
	file, err := os.OpenFile(fullPath, flags, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, syscall.EEXIST) {
			return "", ferrors.NewError(ferrors.CategoryFileSystem, "file already exists").
				UserAction().
				WithContext("path", fullPath).
				Build()
		}
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write export file").Build()
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.WriteString(content); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "write export file").Build()
	}

	return fullPath, nil
}
