package utils

// TruncateLabel shortens a display label to at most limit runes, marking the
// cut with an ellipsis. Limits below 2 return the label unchanged.
func TruncateLabel(label string, limit int) string {
	if limit < 2 {
		return label
	}
	runes := []rune(label)
	if len(runes) <= limit {
		return label
	}
	return string(runes[:limit-1]) + "…"
}
