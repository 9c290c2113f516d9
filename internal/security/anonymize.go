package security

import (
	"strings"

	"github.com/hanachat/contentguard/internal/utils"
)

// identifyingFields are the JSON field names whose values are masked by
// anonymization. Matching is case-insensitive and substring-based so
// "user_name" and "contactEmail" are caught.
var identifyingFields = []string{
	"name",
	"email",
	"phone",
	"address",
	"postal",
	"birthday",
	"birth_date",
}

// AnonymizePersonalData walks a decoded JSON document and masks the
// values of identifying fields in place of returning a copy with those
// values replaced. Non-identifying fields pass through untouched, so a
// document with no identifying fields round-trips byte-identical.
//
// Maps and arrays are descended into recursively; only string values
// are masked, since masking a number or boolean would change its type.
func AnonymizePersonalData(data interface{}) interface{} {
	return anonymizeValue(data, false)
}

// anonymizeValue recurses through the document. identifying is true
// when an ancestor field name marked this subtree as identifying.
func anonymizeValue(value interface{}, identifying bool) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			out[key] = anonymizeValue(child, identifying || isIdentifyingField(key))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = anonymizeValue(child, identifying)
		}
		return out
	case string:
		if identifying {
			return maskString(v)
		}
		return v
	default:
		return v
	}
}

// isIdentifyingField reports whether a field name carries personal data.
func isIdentifyingField(field string) bool {
	f := strings.ToLower(field)
	for _, marker := range identifyingFields {
		if strings.Contains(f, marker) {
			return true
		}
	}
	return false
}

// maskString masks a value, keeping email domains readable so masked
// exports remain debuggable.
func maskString(v string) string {
	if strings.Count(v, "@") == 1 && !strings.HasPrefix(v, "@") && !strings.HasSuffix(v, "@") {
		return utils.MaskEmail(v)
	}
	return utils.MaskValue(v)
}
