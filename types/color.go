package types

// namePalette is the fixed set of hues a name can hash into, used so the
// same project or category name always renders in the same color.
var namePalette = []string{
	"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6",
	"#06b6d4", "#84cc16", "#f97316", "#ec4899", "#6366f1",
}

// NameColor maps a name deterministically into the palette. The hash only
// needs stability, not collision resistance.
func NameColor(name string) string {
	var hash int32
	for _, r := range name {
		hash = int32(r) + (hash << 5) - hash
	}
	h := int(hash)
	if h < 0 {
		h = -h
	}
	return namePalette[h%len(namePalette)]
}
