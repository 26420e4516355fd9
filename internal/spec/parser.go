package spec

import (
	"fmt"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Pair is one keyword/value pair of a spec.
type Pair struct {
	Key   Keyword
	Value any
}

// Parsed is the three-way split of a raw argument list.
type Parsed struct {
	Options    []Pair // ordinary keyword options, in order
	Special    []Pair // keywords the caller asked to intercept, in order
	Positional []any  // everything from the first non-keyword token on
}

// Parse scans raw left to right. Keywords listed in special go to
// Parsed.Special, other keyword/value pairs go to Parsed.Options, and the
// first non-keyword token ends the scan.
func Parse(raw []any, special ...Keyword) (Parsed, error) {
	var p Parsed

	i := 0
	for i < len(raw) {
		key, ok := AsKeyword(raw[i])
		if !ok {
			break
		}
		if i+1 >= len(raw) {
			return Parsed{}, fmt.Errorf("%w: %s", domain.ErrMissingValue, key)
		}

		pair := Pair{Key: key, Value: raw[i+1]}
		if isSpecial(key, special) {
			p.Special = append(p.Special, pair)
		} else {
			p.Options = append(p.Options, pair)
		}
		i += 2
	}

	if i < len(raw) {
		p.Positional = append([]any(nil), raw[i:]...)
	}

	return p, nil
}

func isSpecial(key Keyword, special []Keyword) bool {
	for _, s := range special {
		if K(string(s)) == key {
			return true
		}
	}
	return false
}

// OptionMap returns the options keyed by keyword name.
// When a keyword repeats, the first occurrence wins.
func (p Parsed) OptionMap() map[string]any {
	m := make(map[string]any, len(p.Options))
	for _, o := range p.Options {
		if _, seen := m[string(o.Key)]; !seen {
			m[string(o.Key)] = o.Value
		}
	}
	return m
}

// SpecialValue returns the first value given for the special keyword k.
func (p Parsed) SpecialValue(k Keyword) (any, bool) {
	k = K(string(k))
	for _, s := range p.Special {
		if s.Key == k {
			return s.Value, true
		}
	}
	return nil, false
}

// Promote maps positional arguments onto keywords, in order.
// Keywords already bound in opts keep their explicit value.
func Promote(class string, opts map[string]any, positional []any, keys ...Keyword) error {
	if len(positional) > len(keys) {
		return fmt.Errorf("%s: %w: got %d, accepts %d",
			class, domain.ErrTooManyPositional, len(positional), len(keys))
	}
	for i, v := range positional {
		name := string(K(string(keys[i])))
		if _, bound := opts[name]; !bound {
			opts[name] = v
		}
	}
	return nil
}
