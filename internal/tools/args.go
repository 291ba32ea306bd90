package tools

import "fmt"

// Argument extraction helpers. Tool arguments arrive as a decoded JSON
// object, so numbers are float64 and nested objects are map[string]any.

func stringArg(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", key)
	}

	return value, nil
}

func optionalStringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)

	return value
}

func boolArg(args map[string]any, key string) bool {
	value, _ := args[key].(bool)

	return value
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func mapArg(args map[string]any, key string) map[string]any {
	value, _ := args[key].(map[string]any)

	return value
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	raw, present := args[key]
	if !present {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be an array of strings", key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("argument %q must contain only strings", key)
		}

		out = append(out, s)
	}

	return out, nil
}
