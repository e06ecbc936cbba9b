package draw

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// Attrs are style attributes passed through to a renderer, such as
// "fill_color", "line_width" or "alpha".
type Attrs map[string]any

// Clone returns a shallow copy of the attributes.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// String returns the attribute as a string, or "" if absent or not a string.
func (a Attrs) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Float returns the attribute as a float64.
func (a Attrs) Float(key string, def float64) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Union merges protected attributes with caller attributes.
// The protected set always wins; a caller attribute that names a protected
// key is a CONFIGURATION error listing every offending key. Among the
// others, later maps take precedence.
func Union(protected Attrs, others ...Attrs) (Attrs, error) {
	var conflicts []string
	out := protected.Clone()
	merged := Attrs{}
	for _, o := range others {
		for k, v := range o {
			if _, ok := protected[k]; ok {
				conflicts = append(conflicts, k)
				continue
			}
			merged[k] = v
		}
	}
	if len(conflicts) > 0 {
		slices.Sort(conflicts)
		conflicts = slices.Compact(conflicts)
		return nil, perrors.New(perrors.ErrCodeConfiguration,
			"cannot override protected attributes: %s", strings.Join(conflicts, ", "))
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	maps.Copy(out, merged)
	return out, nil
}

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	nameColor = regexp.MustCompile(`^[a-zA-Z]{1,32}$`)
	funcColor = regexp.MustCompile(`^(?:rgba?|hsla?)\(\s*[0-9.]+%?(?:\s*[,/ ]\s*[0-9.]+%?){2,3}\s*\)$`)
)

// attrEnums lists the accepted values of keyword attributes.
var attrEnums = map[string][]string{
	"text_align":    {"left", "center", "right"},
	"text_baseline": {"top", "middle", "bottom", "alphabetic", "hanging"},
}

// ValidColor reports whether s is a CSS color name, a hex color or an
// rgb/hsl function.
func ValidColor(s string) bool {
	return hexColor.MatchString(s) || nameColor.MatchString(s) || funcColor.MatchString(s)
}

// Validate checks caller-supplied attributes. Keys ending in "_color" must
// hold a color, keyword attributes one of their values, and every other
// key a number or a boolean.
func (a Attrs) Validate() error {
	for _, k := range slices.Sorted(maps.Keys(a)) {
		v := a[k]
		switch {
		case strings.HasSuffix(k, "_color"):
			if s, ok := v.(string); !ok || !ValidColor(s) {
				return perrors.New(perrors.ErrCodeConfiguration, "attribute %s: %v is not a color", k, v)
			}
		case attrEnums[k] != nil:
			if s, ok := v.(string); !ok || !slices.Contains(attrEnums[k], s) {
				return perrors.New(perrors.ErrCodeConfiguration,
					"attribute %s: %v is not one of %s", k, v, strings.Join(attrEnums[k], ", "))
			}
		default:
			switch v.(type) {
			case float64, float32, int, int64, bool:
			default:
				return perrors.New(perrors.ErrCodeConfiguration, "attribute %s: %v is not a number", k, v)
			}
		}
	}
	return nil
}
