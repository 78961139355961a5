package render

import (
	"sort"
	"strings"
)

// Hidden input names of a published fill page.
const (
	ShareURLField    = "share_url"
	FingerprintField = "fingerprint"
)

// HiddenField represents a hidden input emitted alongside the fill controls.
type HiddenField struct {
	Name  string
	Value string
}

// ShareToken carries the share url of a published form so the submission can
// be routed back to it.
func ShareToken(shareURL string) HiddenField {
	return HiddenField{Name: ShareURLField, Value: strings.TrimSpace(shareURL)}
}

// VersionField carries the fingerprint of the definition the respondent saw,
// so a submission against a since changed form can be told apart.
func VersionField(fingerprint string) HiddenField {
	return HiddenField{Name: FingerprintField, Value: strings.TrimSpace(fingerprint)}
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored and later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden inputs by name. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	result := make([]HiddenField, 0, len(fields))
	for name, value := range fields {
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, HiddenField{Name: name, Value: value})
		}
	}
	if len(result) == 0 {
		return nil
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
