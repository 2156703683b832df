package spec

// HTTPMethods lists every HTTP method an OpenAPI path item may define,
// in lowercase as they appear as path item keys.
var HTTPMethods = []string{"get", "post", "put", "delete", "patch", "head", "options", "trace"}

// IsHTTPMethod reports whether key is a recognized HTTP method path item key.
func IsHTTPMethod(key string) bool {
	for _, m := range HTTPMethods {
		if key == m {
			return true
		}
	}
	return false
}

// CountEndpoints counts every HTTP method defined across all paths.
// Non-object path items are skipped.
func CountEndpoints(doc *Document) int {
	paths, ok := GetMap(doc.Data, "paths")
	if !ok {
		return 0
	}
	count := 0
	for _, item := range paths {
		pathItem, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, method := range HTTPMethods {
			if _, ok := pathItem[method]; ok {
				count++
			}
		}
	}
	return count
}

// Title returns the document's info.title, or the empty string.
func Title(doc *Document) string {
	info, ok := GetMap(doc.Data, "info")
	if !ok {
		return ""
	}
	return GetString(info, "title")
}

// OASVersion returns the document's declared openapi version string.
func OASVersion(doc *Document) string {
	return GetString(doc.Data, "openapi")
}
