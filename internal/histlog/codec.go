package histlog

import (
	"strconv"
	"strings"
	"time"

	"go.klb.dev/clipjar/internal/entry"
)

// Delimiter separates the fields of one record.
const Delimiter = '|'

// FileHeader is the first line of a file log written with the Exact codec.
// It has no delimiter, so readers that predate it skip it as malformed.
const FileHeader = "#clipjar-log exact"

// Record format, one per line:
//
//	<epoch-seconds>|<kind>|<escaped-content>   current
//	<epoch-seconds>|<escaped-content>          legacy, kind is text
//
// Two content escapings exist. Legacy escapes newline as \n and '|' as \p
// and writes backslashes raw, so a legacy \\server path must not be read as
// an escaped backslash. Exact also escapes backslash as \\ and carriage
// return as \r, which round-trips any content. File logs announce Exact with
// FileHeader on their first line; headerless files are Legacy.

// Codec encodes and decodes records with one content escaping.
type Codec struct {
	exact bool
}

var (
	// Legacy is the escaping of headerless log files.
	Legacy = Codec{}
	// Exact is the escaping of files that start with FileHeader, and of the
	// embedded backends.
	Exact = Codec{exact: true}
)

var (
	legacyEscaper = strings.NewReplacer(
		"\n", `\n`,
		"|", `\p`,
	)
	exactEscaper = strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"|", `\p`,
	)
)

// Escape encodes content so that it contains neither newlines nor the
// field delimiter.
func (c Codec) Escape(s string) string {
	if c.exact {
		return exactEscaper.Replace(s)
	}
	return legacyEscaper.Replace(s)
}

// Unescape reverses Escape. A backslash that does not start a known token
// is kept as is.
func (c Codec) Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			b.WriteByte(ch)
			continue
		}
		switch next := s[i+1]; {
		case next == 'n':
			b.WriteByte('\n')
		case next == 'p':
			b.WriteByte('|')
		case c.exact && next == 'r':
			b.WriteByte('\r')
		case c.exact && next == '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(ch)
			continue
		}
		i++
	}
	return b.String()
}

// Encode renders e as a current-format record without the trailing newline.
func (c Codec) Encode(e entry.Entry) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(e.CapturedAt.Unix(), 10))
	b.WriteByte(Delimiter)
	b.WriteString(strconv.Itoa(int(e.Kind)))
	b.WriteByte(Delimiter)
	b.WriteString(c.Escape(e.Content))
	return b.String()
}

// Decode parses one record in either format. ok is false for lines with no
// delimiter and for records whose content is empty. A kind that does not
// parse becomes text; a timestamp that does not parse becomes now.
func (c Codec) Decode(line string) (e entry.Entry, ok bool) {
	line = strings.TrimRight(line, "\r\n")

	first := strings.IndexByte(line, Delimiter)
	if first < 0 {
		return entry.Entry{}, false
	}
	tsField := line[:first]
	rest := line[first+1:]

	kind := entry.KindText
	content := rest
	if second := strings.IndexByte(rest, Delimiter); second >= 0 {
		kind = parseKind(rest[:second])
		content = rest[second+1:]
	}

	content = c.Unescape(content)
	if content == "" {
		return entry.Entry{}, false
	}

	return entry.Entry{
		Kind:       kind,
		Content:    content,
		CapturedAt: parseTime(tsField),
	}, true
}

func parseKind(s string) entry.Kind {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !entry.Kind(n).Valid() {
		return entry.KindText
	}
	return entry.Kind(n)
}

func parseTime(s string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return entry.Now()
	}
	return time.Unix(sec, 0)
}
