package strategist

// mandatoryFields are the strategy fields that must survive generation, in
// the order they are reported when missing.
var mandatoryFields = []string{"summary", "growthScore", "marketingChannels", "salesFunnel", "contentCalendar"}

// CheckMandatory inspects a raw parsed model response and returns the names
// of mandatory fields that are absent or have the wrong shape. An empty
// result means the candidate is usable. Optional fields are never checked,
// and no type coercion happens here: a numeric string is not a number.
func CheckMandatory(obj map[string]any) []string {
	var missing []string
	for _, field := range mandatoryFields {
		v, ok := obj[field]
		if !ok || v == nil {
			missing = append(missing, field)
			continue
		}
		switch field {
		case "summary":
			s, ok := v.(string)
			if !ok || s == "" {
				missing = append(missing, field)
			}
		case "growthScore":
			if _, ok := v.(float64); !ok {
				missing = append(missing, field)
			}
		default:
			// The list fields may be empty but must be arrays.
			if _, ok := v.([]any); !ok {
				missing = append(missing, field)
			}
		}
	}
	return missing
}
