// Package entry defines the value type for one captured clipboard payload.
package entry

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Kind discriminates how Entry.Content is interpreted. The numeric values are
// the tags written to the durable log and must not change.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindFiles
)

// ImagePlaceholder is stored instead of pixel data for image captures.
const ImagePlaceholder = "[Image]"

// FileSeparator joins the paths of a Files entry.
const FileSeparator = ";"

// String returns the lower-case kind name used in logs and IPC messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindFiles:
		return "files"
	default:
		return "unknown"
	}
}

// Label returns the bracketed display tag for list views.
func (k Kind) Label() string {
	switch k {
	case KindImage:
		return "[IMAGE]"
	case KindFiles:
		return "[FILES]"
	default:
		return "[TEXT]"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindText && k <= KindFiles
}

// ParseKind is the inverse of Kind.String. Unknown names map to KindText.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "image":
		return KindImage
	case "files":
		return KindFiles
	default:
		return KindText
	}
}

// Entry is one recorded clipboard capture. Entries are values; history is
// edited by removing and re-adding, never by mutating an Entry in place.
type Entry struct {
	Kind       Kind
	Content    string
	CapturedAt time.Time
}

// New returns an Entry captured now, truncated to second granularity.
func New(content string, kind Kind) Entry {
	return Entry{
		Kind:       kind,
		Content:    content,
		CapturedAt: Now(),
	}
}

// Now returns the current wall-clock time truncated to whole seconds.
func Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// SameContent reports whether two entries count as duplicates. Only content
// is compared.
func (e Entry) SameContent(o Entry) bool {
	return e.Content == o.Content
}

// Files returns the paths of a Files entry.
func (e Entry) Files() []string {
	return SplitFiles(e.Content)
}

// JoinFiles joins paths with FileSeparator, dropping empty paths.
func JoinFiles(paths []string) string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, FileSeparator)
}

// SplitFiles is the inverse of JoinFiles. Empty segments are dropped.
func SplitFiles(s string) []string {
	var out []string
	for _, p := range strings.Split(s, FileSeparator) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DefaultPreviewWidth is the width history listings truncate previews to.
const DefaultPreviewWidth = 80

// Preview renders content as a single display line at most width columns
// wide. Newlines and carriage returns become spaces.
func Preview(content string, width int) string {
	flat := strings.NewReplacer("\r", " ", "\n", " ").Replace(content)
	if width <= 0 || runewidth.StringWidth(flat) <= width {
		return flat
	}
	return runewidth.Truncate(flat, width, "...")
}

// Preview returns the display line for e.
func (e Entry) Preview(width int) string {
	if e.Kind == KindImage {
		return ImagePlaceholder
	}
	return Preview(e.Content, width)
}
