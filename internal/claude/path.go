package claude

import "strings"

// Sanitize converts a working-directory path into the directory name the
// Claude CLI uses under its projects tree. The transform is lossy: runs
// of path separators (and drive-letter colons) collapse into a single
// hyphen and leading/trailing hyphens are trimmed.
func Sanitize(path string) string {
	var b strings.Builder
	lastWasSep := false

	for _, c := range strings.TrimLeft(path, "/") {
		if c == '/' || c == '\\' || c == ':' {
			if !lastWasSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			lastWasSep = true
			continue
		}
		b.WriteRune(c)
		lastWasSep = false
	}

	return strings.Trim(b.String(), "-")
}

// Desanitize is the best-effort inverse of Sanitize. It is not reliable:
// a hyphen in an original path segment is indistinguishable from a
// separator, so callers must prefer a cwd recorded inside a session file
// whenever one exists and fall back to this only in its absence.
func Desanitize(dirname string) string {
	return "/" + strings.ReplaceAll(dirname, "-", "/")
}
