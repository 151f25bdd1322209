package executor

import "strings"

// refExpr is a parsed "$name" or "$name.field" reference expression.
// Field defaults to "id" when no dot is present.
type refExpr struct {
	name  string
	field string
}

// parseRef recognizes the reference mini-language. Only string values with
// a leading "$" qualify; everything else is a literal.
func parseRef(v any) (refExpr, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return refExpr{}, false
	}
	ref := s[1:]
	if name, field, found := strings.Cut(ref, "."); found {
		return refExpr{name: name, field: field}, true
	}
	return refExpr{name: ref, field: "id"}, true
}

// resolveReferences returns a new data map with every reference expression
// substituted from the registry. An expression naming an unregistered
// entity is silently dropped from the result; downstream required-field
// validation reports the real problem.
func resolveReferences(data map[string]any, registry map[string]map[string]any) map[string]any {
	resolved := make(map[string]any, len(data))
	for key, value := range data {
		ref, ok := parseRef(value)
		if !ok {
			resolved[key] = value
			continue
		}
		entity, ok := registry[ref.name]
		if !ok {
			continue
		}
		if fieldValue, ok := entity[ref.field]; ok {
			resolved[key] = fieldValue
		}
	}
	return resolved
}
