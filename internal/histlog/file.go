package histlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"go.klb.dev/clipjar/internal/entry"
)

// File is the line-oriented Log. Records are appended oldest first, one per
// line, so loading reads the whole file and reverses it. A file this package
// creates starts with FileHeader and uses the Exact codec; appends to a
// headerless file keep using Legacy so the file stays readable as a whole.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File log at path. Call Initialize before use.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }
func (f *File) Close() error { return nil }

// Initialize creates the file (and its directory) if it does not exist and
// checks that it can be opened for appending. An empty file gets the header.
func (f *File) Initialize() error {
	if err := ensureDir(f.path); err != nil {
		return fmt.Errorf("histlog: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLine("")
}

func (f *File) Append(e entry.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	codec, err := f.codec()
	if err != nil {
		return err
	}
	return f.appendLine(codec.Encode(e))
}

// appendLine writes FileHeader if the file is empty, then record if it is
// not empty.
func (f *File) appendLine(record string) error {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("histlog: open %s: %w", f.path, err)
	}
	fi, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return fmt.Errorf("histlog: stat %s: %w", f.path, err)
	}
	var buf strings.Builder
	if fi.Size() == 0 {
		buf.WriteString(FileHeader + "\n")
	}
	if record != "" {
		buf.WriteString(record + "\n")
	}
	if buf.Len() > 0 {
		if _, err := io.WriteString(fh, buf.String()); err != nil {
			_ = fh.Close()
			return fmt.Errorf("histlog: append: %w", err)
		}
	}
	return fh.Close()
}

// codec reports the escaping the existing file uses. A missing or empty
// file will be given a header, so it is Exact.
func (f *File) codec() (Codec, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Exact, nil
		}
		return Codec{}, fmt.Errorf("histlog: open %s: %w", f.path, err)
	}
	defer fh.Close()

	first, err := bufio.NewReader(fh).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Codec{}, fmt.Errorf("histlog: read %s: %w", f.path, err)
	}
	if first == "" || isHeader(first) {
		return Exact, nil
	}
	return Legacy, nil
}

func isHeader(line string) bool {
	return strings.TrimRight(line, "\r\n") == FileHeader
}

func (f *File) Load(limit int) ([]entry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entry.Entry
	codec, first := Legacy, true
	err := f.eachLine(func(line string) {
		if first {
			first = false
			if isHeader(line) {
				codec = Exact
				return
			}
		}
		if e, ok := codec.Decode(line); ok {
			out = append(out, e)
		}
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("histlog: truncate %s: %w", f.path, err)
	}
	if _, err := io.WriteString(fh, FileHeader+"\n"); err != nil {
		_ = fh.Close()
		return fmt.Errorf("histlog: truncate %s: %w", f.path, err)
	}
	return fh.Close()
}

// Count returns the number of non-empty record lines without decoding them.
func (f *File) Count() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	err := f.eachLine(func(line string) {
		if strings.TrimRight(line, "\r") != "" && !isHeader(line) {
			n++
		}
	})
	return n, err
}

// eachLine calls fn for every line of the file, without the newline.
// A missing file has no lines.
func (f *File) eachLine(fn func(string)) error {
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("histlog: open %s: %w", f.path, err)
	}
	defer fh.Close()

	br := bufio.NewReaderSize(fh, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			fn(strings.TrimSuffix(line, "\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("histlog: read %s: %w", f.path, err)
		}
	}
}
