package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for processing.
// Mill certificates arrive as PDF scans only.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// OutputExt is the extension every synthesized filename carries.
const OutputExt = ".pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
