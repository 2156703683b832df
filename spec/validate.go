package spec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
)

// Validate checks the top-level structure of an OpenAPI document: the
// required openapi, info, and paths fields, and that the declared version is
// 3.0 or higher. It is invoked by the request-handling layer before the
// resolver ever sees the document; a failure here is the only error class an
// end user observes as a rejected request.
//
// Non-fatal issues (paths not starting with '/') are appended to doc.Warnings
// and logged, but do not fail validation.
func Validate(doc *Document, logger Logger) error {
	if logger == nil {
		logger = NopLogger{}
	}
	data := doc.Data
	if data == nil {
		return &docerrors.ValidationError{Message: "document is empty"}
	}

	versionRaw, ok := data["openapi"]
	if !ok {
		return &docerrors.ValidationError{
			Field:   "openapi",
			Message: "missing required field; only OpenAPI 3.x documents are supported",
		}
	}
	version, ok := versionRaw.(string)
	if !ok {
		return &docerrors.ValidationError{
			Field:   "openapi",
			Value:   versionRaw,
			Message: "version must be a string",
		}
	}
	if err := checkVersion(version); err != nil {
		return err
	}

	if _, ok := data["info"]; !ok {
		return &docerrors.ValidationError{
			Field:   "info",
			Message: "missing required field",
		}
	}

	pathsRaw, ok := data["paths"]
	if !ok {
		return &docerrors.ValidationError{
			Field:   "paths",
			Message: "missing required field",
		}
	}
	paths, ok := pathsRaw.(map[string]any)
	if !ok {
		return &docerrors.ValidationError{
			Field:   "paths",
			Value:   pathsRaw,
			Message: "must be an object",
		}
	}

	for _, path := range doc.Keys(paths) {
		if !strings.HasPrefix(path, "/") {
			warning := fmt.Sprintf("path %q does not start with '/'", path)
			doc.Warnings = append(doc.Warnings, warning)
			logger.Warn("non-conforming path", "path", path)
		}
	}

	return nil
}

// checkVersion parses the declared OAS version and rejects anything below 3.0.
func checkVersion(version string) error {
	parts := strings.Split(version, ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return &docerrors.ValidationError{
			Field:   "openapi",
			Value:   version,
			Message: "invalid version format, expected '3.0.0' or higher",
		}
	}
	minor := 0
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return &docerrors.ValidationError{
				Field:   "openapi",
				Value:   version,
				Message: "invalid version format, expected '3.0.0' or higher",
			}
		}
	}
	if major < 3 || (major == 3 && minor < 0) {
		return &docerrors.ValidationError{
			Field:   "openapi",
			Value:   version,
			Message: "unsupported OpenAPI version, 3.0.0 or higher is required",
		}
	}
	return nil
}
