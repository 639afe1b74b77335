package clip

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ParseURIList interprets text as a text/uri-list of local files. ok is
// false unless every non-empty, non-comment line is a file:// URI with an
// absolute path.
func ParseURIList(text string) (paths []string, ok bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme != "file" || (u.Host != "" && u.Host != "localhost") {
			return nil, false
		}
		p := filepath.FromSlash(u.Path)
		if isWindowsDrivePath(u.Path) {
			p = filepath.FromSlash(u.Path[1:])
		}
		if p == "" {
			return nil, false
		}
		paths = append(paths, p)
	}
	return paths, len(paths) > 0
}

// FormatURIList renders paths as a text/uri-list.
func FormatURIList(paths []string) string {
	var b strings.Builder
	for _, p := range paths {
		if p == "" {
			continue
		}
		slashed := filepath.ToSlash(p)
		if !strings.HasPrefix(slashed, "/") {
			slashed = "/" + slashed
		}
		u := url.URL{Scheme: "file", Path: slashed}
		b.WriteString(u.String())
		b.WriteString("\r\n")
	}
	return b.String()
}

// isWindowsDrivePath reports whether p looks like /C:/...
func isWindowsDrivePath(p string) bool {
	return len(p) >= 3 && p[0] == '/' && p[2] == ':' &&
		((p[1] >= 'a' && p[1] <= 'z') || (p[1] >= 'A' && p[1] <= 'Z'))
}
