// Package openapitodocx converts OpenAPI 3.x specifications into human-readable
// documentation: a structured Markdown representation and a styled DOCX document.
//
// The library consists of several packages, built bottom-up:
//
//   - spec: load and validate OpenAPI 3.x documents (JSON or YAML)
//   - resolve: resolve $ref pointers, classify schema types, and synthesize
//     representative example values with cycle and depth protection
//   - describe: build per-operation descriptors (parameter tables, response
//     fields, authentication and interface classification)
//   - markdown: render operation descriptors as a Markdown document
//   - docx: render the Markdown representation as a DOCX file
//   - enhance: optional description enhancement via an OpenAI-compatible
//     chat-completions endpoint
//   - server: HTTP upload/download surface for the conversion pipeline
//
// # Quick Start
//
// Convert a specification file to Markdown:
//
//	doc, err := spec.LoadFile("openapi.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := spec.Validate(doc); err != nil {
//		log.Fatal(err)
//	}
//	gen := markdown.NewGenerator(doc)
//	fmt.Println(gen.Generate())
//
// Render the result as DOCX:
//
//	data, err := docx.Build(gen.Generate())
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("api.docx", data, 0o644)
//
// The resolver and synthesizer never fail: unresolvable references, reference
// cycles, and excessive nesting all degrade to empty placeholder values with a
// warning logged, so a structurally valid specification always produces a
// complete document. Only malformed top-level input (missing openapi/info/paths
// or an unsupported version) is reported to the caller as an error.
package openapitodocx
