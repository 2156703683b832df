// Package markdown renders the intermediate markdown representation of an
// OpenAPI document: numbered endpoint sections with requirement tables,
// parameter and response-field tables, and JSON example blocks. The markdown
// output is what the docx package converts into a binary document.
package markdown
