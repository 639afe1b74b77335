//go:build linux || darwin || windows

package clip

import (
	"fmt"

	"golang.design/x/clipboard"
)

// clipboardWrite is clipboard.Write. It returns a nil channel when the
// write did not happen.
var clipboardWrite = clipboard.Write

// systemFormats probes the golang.design clipboard. The library has no
// file-drop format, so a text clipboard that parses as a uri-list is
// reported as files. Image bytes are only checked for presence.
func systemFormats() Formats {
	var fs Formats
	text := clipboard.Read(clipboard.FmtText)
	if len(text) > 0 {
		fs = fs.With(FormatText)
		if _, ok := ParseURIList(string(text)); ok {
			fs = fs.With(FormatFiles)
		}
	}
	if img := clipboard.Read(clipboard.FmtImage); len(img) > 0 {
		fs = fs.With(FormatImage)
	}
	return fs
}

func systemReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func systemReadFiles() ([]string, error) {
	paths, ok := ParseURIList(string(clipboard.Read(clipboard.FmtText)))
	if !ok {
		return nil, fmt.Errorf("clipboard holds no file list: %w", ErrUnsupported)
	}
	return paths, nil
}

func systemWriteText(text string) ([]byte, error) {
	data := []byte(text)
	if clipboardWrite(clipboard.FmtText, data) == nil {
		return nil, fmt.Errorf("write text: %w", ErrWriteFailed)
	}
	return data, nil
}

func systemWriteFiles(paths []string) ([]byte, error) {
	list := FormatURIList(paths)
	if list == "" {
		return nil, fmt.Errorf("no files to write: %w", ErrUnsupported)
	}
	return systemWriteText(list)
}
