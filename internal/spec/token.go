// Package spec turns declarative argument lists into constructor input.
//
// A spec is a flat list of tokens: keyword/value pairs followed by
// positional arguments. Keywords are either Keyword values or strings
// starting with ':' (":hook"). The first element of a nested guard or
// listener spec is the alias of the class to build:
//
//	[]any{"hook", ":hook", "after-save"}
//	[]any{"hook", "after-save"}          // same, positional form
//	[]any{"expr-value", "var:count", "increased"}
//
// Registry resolves aliases to classes; Parse splits the remaining tokens.
package spec

import "strings"

// Keyword is an option name. It is stored without the leading colon.
type Keyword string

// K returns the keyword for name, accepting "hook" or ":hook".
func K(name string) Keyword {
	return Keyword(strings.TrimPrefix(name, ":"))
}

func (k Keyword) String() string {
	return ":" + string(k)
}

// Quoted wraps a symbol the way a quote form does; parsers unwrap it.
type Quoted struct {
	Value any
}

// Quote returns v wrapped in a quote form.
func Quote(v any) Quoted {
	return Quoted{Value: v}
}

// Unquote strips any number of quote forms from v.
func Unquote(v any) any {
	for {
		q, ok := v.(Quoted)
		if !ok {
			return v
		}
		v = q.Value
	}
}

// AsKeyword reports whether tok is a keyword token.
func AsKeyword(tok any) (Keyword, bool) {
	switch v := tok.(type) {
	case Keyword:
		return K(string(v)), v != "" && v != ":"
	case string:
		if len(v) > 1 && v[0] == ':' {
			return Keyword(v[1:]), true
		}
	}
	return "", false
}

// Symbol returns the name carried by an alias or class token.
func Symbol(tok any) (string, bool) {
	switch v := Unquote(tok).(type) {
	case string:
		return v, v != ""
	case Keyword:
		return string(K(string(v))), v != ""
	case interface{ String() string }:
		s := v.String()
		return s, s != ""
	}
	return "", false
}
