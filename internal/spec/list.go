package spec

import (
	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// List normalizes an option holding nested specs into one item per spec.
//
//	nil                                  -> none
//	[]any{"hook", "tick"}                -> one spec (first element is an alias)
//	[]any{"hook-a", "hook-b"}            -> one spec: alias hook-a, argument hook-b
//	[]any{[]any{"hook", "a"}, "hook-b"}  -> two specs
//
// A list whose first element is a string is always a single spec, so several
// specs need the nested form unless the first one is already a list. Items
// that are not lists (built instances, bare aliases) are kept as is.
func List(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		if len(v) == 0 {
			return nil
		}
		if _, isKey := AsKeyword(v[0]); !isKey {
			if _, isAlias := v[0].(string); isAlias {
				return []any{v}
			}
		}
		return v
	default:
		return []any{raw}
	}
}

// Split separates a nested spec into its alias and argument tokens.
// A bare alias string is a spec without arguments.
func Split(item any) (string, []any, error) {
	switch v := item.(type) {
	case string:
		if v != "" {
			return v, nil, nil
		}
	case []any:
		if len(v) > 0 {
			if alias, ok := Symbol(v[0]); ok {
				if _, isKey := AsKeyword(v[0]); !isKey {
					return alias, v[1:], nil
				}
			}
		}
	}
	return "", nil, &domain.TypeMismatchError{Want: "spec list starting with an alias", Got: item}
}
