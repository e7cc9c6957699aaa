// =============================================================================
// Finance Analyzer - Transformation Engine
// =============================================================================
//
// Field transformations run on raw values before they are coerced. Typical
// uses are normalising category labels ("Alimentação" / "alimentacao" ->
// "food") and filling blank descriptions.
//
// =============================================================================

package loader

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
)

// Transformer applies configured actions to row fields.
type Transformer struct {
	rules []config.TransformationRule
}

// NewTransformer creates a new Transformer with the given rules.
func NewTransformer(rules []config.TransformationRule) *Transformer {
	return &Transformer{rules: rules}
}

// Apply transforms a row in place. Rules naming a column the row does not
// have are ignored.
func (t *Transformer) Apply(fields map[string]string) error {
	for _, rule := range t.rules {
		value, exists := fields[rule.Field]
		if !exists {
			continue
		}

		for _, action := range rule.Actions {
			var err error
			value, err = ApplyTransformation(value, action)
			if err != nil {
				return fmt.Errorf("failed to apply %s to field %s: %w", action.Type, rule.Field, err)
			}
		}

		fields[rule.Field] = value
	}

	return nil
}

// ApplyTransformation applies a single transformation action.
//
// SUPPORTED TRANSFORMATIONS:
//   - trim, uppercase, lowercase, title
//   - replace : every Find becomes Value
//   - lookup  : the whole value is replaced when it is a key of LookupTable;
//               an exact key wins over a case-insensitive one
//   - default : Value is used when the field is blank
func ApplyTransformation(value string, action config.TransformationAction) (string, error) {
	switch action.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "title":
		return cases.Title(language.Und).String(value), nil

	case "replace":
		if action.Find == "" {
			return "", fmt.Errorf("replace requires 'find'")
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "lookup":
		if replacement, ok := action.LookupTable[value]; ok {
			return replacement, nil
		}
		keys := make([]string, 0, len(action.LookupTable))
		for key := range action.LookupTable {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if strings.EqualFold(key, value) {
				return action.LookupTable[key], nil
			}
		}
		return value, nil

	case "default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("unknown transformation type '%s'", action.Type)
	}
}
