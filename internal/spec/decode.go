package spec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/eliteGoblin/focusd/monitors/internal/domain"
)

// Decode copies opts into out, a pointer to a struct whose fields carry
// `spec:"name"` tags. Keys listed in required must be bound to a non-nil
// value; keys out does not declare fail with domain.ErrUnknownOption.
func Decode(class string, opts map[string]any, out any, required ...string) error {
	var missing []string
	for _, name := range required {
		if v, ok := opts[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &domain.MissingRequiredOptionError{Class: class, Fields: missing}
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "spec",
		Metadata: &md,
		Result:   out,
	})
	if err != nil {
		return fmt.Errorf("%s: build decoder: %w", class, err)
	}

	if err := decoder.Decode(opts); err != nil {
		return fmt.Errorf("%s: decode options: %w", class, err)
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return fmt.Errorf("%s: %w: %s", class, domain.ErrUnknownOption, strings.Join(md.Unused, ", "))
	}

	return nil
}
