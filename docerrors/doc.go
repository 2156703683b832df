// Package docerrors provides structured error types for openapi-to-docx.
//
// Import path: github.com/iliakrupin/openapi-to-docx/docerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
//   - [ParseError]: JSON/YAML parsing failures and structural issues
//   - [ValidationError]: top-level OpenAPI specification violations
//   - [ReferenceError]: $ref resolution failures and circular references
//   - [ResourceLimitError]: resource exhaustion (nesting depth, upload size)
//   - [RenderError]: documentation rendering failures (Markdown or DOCX)
//   - [ConfigError]: invalid configuration or input options
//
// Only [ParseError] and [ValidationError] ever reach an end user as a request
// failure; reference and depth errors are recovered internally and degrade to
// placeholder values in the generated documentation.
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrValidation]: matches any [ValidationError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCircularReference]: matches [ReferenceError] with IsCircular=true
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrRender]: matches any [RenderError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage
//
//	doc, err := spec.LoadFile("api.json")
//	if errors.Is(err, docerrors.ErrParse) {
//	    // reject the upload with a 400 response
//	}
//
//	var refErr *docerrors.ReferenceError
//	if errors.As(err, &refErr) && refErr.IsCircular {
//	    // circular reference detected
//	}
//
// All error types support error chaining via the Cause field and Unwrap().
package docerrors
