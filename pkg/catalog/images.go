package catalog

import (
	"path"
	"strings"
)

// colorPlaceholder is the token catalog image templates use for the
// color-variant slot, e.g. "chums-hat-{color}.jpg".
const colorPlaceholder = "{color}"

// ResolveImage substitutes a color code into a raw image reference
// following the catalog naming convention: a {color} placeholder is
// replaced in place; references without a placeholder get the color
// appended before the file extension ("hat.jpg" -> "hat_red.jpg").
// An empty color returns the reference with the placeholder stripped.
func ResolveImage(ref, color string) string {
	if ref == "" {
		return ""
	}
	if strings.Contains(ref, colorPlaceholder) {
		if color == "" {
			// No variant to substitute, drop the slot and any
			// separator left dangling before it.
			ref = strings.ReplaceAll(ref, "_"+colorPlaceholder, "")
			ref = strings.ReplaceAll(ref, "-"+colorPlaceholder, "")
			return strings.ReplaceAll(ref, colorPlaceholder, "")
		}
		return strings.ReplaceAll(ref, colorPlaceholder, color)
	}
	if color == "" {
		return ref
	}
	ext := path.Ext(ref)
	return strings.TrimSuffix(ref, ext) + "_" + color + ext
}
