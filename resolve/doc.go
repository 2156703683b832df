// Package resolve implements the schema resolution and example-synthesis
// engine: it walks an arbitrary, possibly cyclic JSON Schema graph via $ref
// pointers, resolves references safely, classifies schema types, and
// synthesizes representative example values without unbounded recursion.
//
// A [Resolver] is bound to a single document and owns its own memoization
// cache, so concurrent requests each build their own Resolver and cannot
// interfere with one another. None of the operations return errors: every
// failure path (unresolvable reference, reference cycle, excessive nesting)
// degrades to a best-effort value with a warning logged through the
// configured [spec.Logger].
package resolve
