package describe

import (
	"sort"
	"strings"

	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

// maxErrorExamples caps how many error responses are rendered per operation.
const maxErrorExamples = 3

// RequestExample builds an example request payload: the request body's
// declared examples win, then its deprecated example field, then a value
// synthesized from the schema. Bodyless operations fall back to a map of
// parameter examples.
func (b *Builder) RequestExample(op map[string]any) any {
	if body, ok := spec.GetMap(op, "requestBody"); ok {
		content, _ := spec.GetMap(body, "content")
		for _, mediaType := range b.doc.Keys(content) {
			media, ok := content[mediaType].(map[string]any)
			if !ok {
				continue
			}
			if example, ok := b.mediaExample(media); ok {
				return example
			}
			schema, _ := spec.GetMap(media, "schema")
			if resolved := b.res.Resolve(schema); len(resolved) > 0 {
				return b.res.Example(resolved)
			}
		}
	}

	params, _ := spec.GetSlice(op, "parameters")
	if len(params) == 0 {
		return map[string]any{"example": "value"}
	}
	example := resolve.NewObject()
	for _, p := range params {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		schema, _ := spec.GetMap(param, "schema")
		name := spec.FirstNonEmpty(spec.GetString(param, "name"), "param")
		example.Set(name, b.res.Example(b.res.Resolve(schema)))
	}
	if example.Len() == 0 {
		return map[string]any{"example": "value"}
	}
	return example
}

// errorFallback is the response example used when the document declares no
// usable success response.
func errorFallback() map[string]any {
	return map[string]any{"errorCode": 0, "errorMessage": ""}
}

// ResponseExample builds an example success response, with the same
// examples > example > schema precedence as RequestExample.
func (b *Builder) ResponseExample(op map[string]any) any {
	responses, _ := spec.GetMap(op, "responses")

	var response map[string]any
	for _, status := range []string{"200", "201", "202"} {
		if r, ok := spec.GetMap(responses, status); ok {
			response = r
			break
		}
	}
	if response == nil {
		for _, status := range b.doc.Keys(responses) {
			if strings.HasPrefix(status, "2") {
				if r, ok := spec.GetMap(responses, status); ok {
					response = r
					break
				}
			}
		}
	}
	if response == nil {
		for _, status := range b.doc.Keys(responses) {
			if r, ok := spec.GetMap(responses, status); ok {
				response = r
				break
			}
		}
	}
	if response == nil {
		return errorFallback()
	}

	content, _ := spec.GetMap(response, "content")
	for _, mediaType := range b.doc.Keys(content) {
		media, ok := content[mediaType].(map[string]any)
		if !ok {
			continue
		}
		if example, ok := b.mediaExample(media); ok {
			return example
		}
		schema, _ := spec.GetMap(media, "schema")
		if resolved := b.res.Resolve(schema); len(resolved) > 0 {
			return b.res.Example(resolved)
		}
	}
	return errorFallback()
}

// ErrorExamples collects example payloads for up to maxErrorExamples 4xx/5xx
// responses, lowest status first.
func (b *Builder) ErrorExamples(op map[string]any) []any {
	responses, ok := spec.GetMap(op, "responses")
	if !ok {
		return nil
	}

	var codes []string
	for code := range responses {
		if strings.HasPrefix(code, "4") || strings.HasPrefix(code, "5") {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	if len(codes) > maxErrorExamples {
		codes = codes[:maxErrorExamples]
	}

	var examples []any
	for _, code := range codes {
		response, ok := spec.GetMap(responses, code)
		if !ok {
			continue
		}
		content, _ := spec.GetMap(response, "content")
		_, media := b.PreferredMedia(content)
		if media == nil {
			continue
		}
		if example, ok := b.mediaExample(media); ok {
			examples = append(examples, example)
			continue
		}
		if schema, ok := spec.GetMap(media, "schema"); ok {
			examples = append(examples, b.res.Example(b.res.Resolve(schema)))
		}
	}
	return examples
}

// PreferredMedia picks the media entry to document from a content map:
// application/json first, then any JSON-ish media type, then the first entry.
func (b *Builder) PreferredMedia(content map[string]any) (string, map[string]any) {
	if len(content) == 0 {
		return "", nil
	}
	if media, ok := spec.GetMap(content, "application/json"); ok {
		return "application/json", media
	}
	keys := b.doc.Keys(content)
	for _, mediaType := range keys {
		if strings.Contains(mediaType, "json") {
			if media, ok := spec.GetMap(content, mediaType); ok {
				return mediaType, media
			}
		}
	}
	for _, mediaType := range keys {
		if media, ok := spec.GetMap(content, mediaType); ok {
			return mediaType, media
		}
	}
	return "", nil
}

// mediaExample extracts the declared example from a media object: the first
// entry of "examples" wins over the deprecated "example" field.
func (b *Builder) mediaExample(media map[string]any) (any, bool) {
	if examples, ok := spec.GetMap(media, "examples"); ok && len(examples) > 0 {
		first := examples[b.doc.Keys(examples)[0]]
		if entry, ok := first.(map[string]any); ok {
			return entry["value"], true
		}
		return first, true
	}
	if example, ok := media["example"]; ok {
		b.log().Debug("media uses deprecated example field")
		return example, true
	}
	return nil, false
}
