// Package describe extracts per-operation descriptors from an OpenAPI
// document: tag groupings, authentication schemes, interface modes, parameter
// and response-field tables, and request/response/error examples.
//
// A Builder wraps a resolve.Resolver and shares its reference cache, so all
// descriptor extraction for one document reuses the same resolved schemas.
// Extraction never fails; malformed pieces of the document are skipped with
// warnings and sensible defaults fill the gaps.
package describe
