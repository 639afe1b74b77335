//go:build windows

package clip

// #cgo LDFLAGS: -luser32 -lshell32
//
// #include <windows.h>
// #include <shlobj.h>
// #include <shellapi.h>
// #include <stdlib.h>
// #include <string.h>
//
// static HWND clipjar_create_listener_window();
// static void clipjar_pump_messages(HWND hwnd, int* changed);
//
// static LRESULT CALLBACK clipjar_wnd_proc(HWND hwnd, UINT msg, WPARAM wp, LPARAM lp) {
//     if (msg == WM_CLIPBOARDUPDATE) {
//         PostMessage(hwnd, WM_USER + 1, 0, 0);
//         return 0;
//     }
//     return DefWindowProc(hwnd, msg, wp, lp);
// }
//
// static HWND clipjar_create_listener_window() {
//     WNDCLASS wc = {0};
//     wc.lpfnWndProc   = clipjar_wnd_proc;
//     wc.hInstance     = GetModuleHandle(NULL);
//     wc.lpszClassName = "ClipjarListener";
//     RegisterClass(&wc);
//     HWND hwnd = CreateWindowEx(0, "ClipjarListener", NULL, 0,
//         0, 0, 0, 0, HWND_MESSAGE, NULL, GetModuleHandle(NULL), NULL);
//     AddClipboardFormatListener(hwnd);
//     return hwnd;
// }
//
// static void clipjar_pump_messages(HWND hwnd, int* changed) {
//     MSG msg;
//     *changed = 0;
//     while (PeekMessage(&msg, hwnd, 0, 0, PM_REMOVE)) {
//         if (msg.message == WM_USER + 1) { *changed = 1; }
//         TranslateMessage(&msg);
//         DispatchMessage(&msg);
//     }
// }
//
// static void clipjar_destroy_listener_window(HWND hwnd) {
//     RemoveClipboardFormatListener(hwnd);
//     DestroyWindow(hwnd);
// }
//
// static int clipjar_has_hdrop() {
//     return IsClipboardFormatAvailable(CF_HDROP) ? 1 : 0;
// }
//
// // Returns a calloc'd block of NUL-terminated paths and its length in
// // WCHARs, or NULL if the clipboard could not be read.
// static WCHAR* clipjar_read_hdrop(int* units) {
//     WCHAR* out = NULL;
//     *units = 0;
//     if (!OpenClipboard(NULL)) {
//         return NULL;
//     }
//     HDROP h = (HDROP)GetClipboardData(CF_HDROP);
//     if (h != NULL) {
//         UINT n = DragQueryFileW(h, 0xFFFFFFFF, NULL, 0);
//         size_t total = 0;
//         for (UINT i = 0; i < n; i++) {
//             total += DragQueryFileW(h, i, NULL, 0) + 1;
//         }
//         out = (WCHAR*)calloc(total + 1, sizeof(WCHAR));
//         if (out != NULL) {
//             WCHAR* p = out;
//             for (UINT i = 0; i < n; i++) {
//                 UINT len = DragQueryFileW(h, i, NULL, 0);
//                 DragQueryFileW(h, i, p, len + 1);
//                 p += len + 1;
//             }
//             *units = (int)total;
//         }
//     }
//     CloseClipboard();
//     return out;
// }
//
// // Replaces the clipboard with a CF_HDROP. files is the double-NUL
// // terminated path block, units its length in WCHARs.
// static int clipjar_write_hdrop(const WCHAR* files, size_t units) {
//     SIZE_T size = sizeof(DROPFILES) + units * sizeof(WCHAR);
//     HGLOBAL mem = GlobalAlloc(GMEM_MOVEABLE | GMEM_ZEROINIT, size);
//     if (mem == NULL) {
//         return 0;
//     }
//     DROPFILES* df = (DROPFILES*)GlobalLock(mem);
//     if (df == NULL) {
//         GlobalFree(mem);
//         return 0;
//     }
//     df->pFiles = sizeof(DROPFILES);
//     df->fWide = TRUE;
//     memcpy((char*)df + sizeof(DROPFILES), files, units * sizeof(WCHAR));
//     GlobalUnlock(mem);
//     if (!OpenClipboard(NULL)) {
//         GlobalFree(mem);
//         return 0;
//     }
//     if (!EmptyClipboard() || SetClipboardData(CF_HDROP, mem) == NULL) {
//         CloseClipboard();
//         GlobalFree(mem);
//         return 0;
//     }
//     CloseClipboard();
//     return 1;
// }
import "C"

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"golang.design/x/clipboard"
)

const windowsPumpInterval = 50 * time.Millisecond

type windowsBackend struct {
	watchCh chan struct{}
	done    chan struct{}
}

// New returns the Windows clipboard backend. The hidden listener window
// receives WM_CLIPBOARDUPDATE for every change, our own writes included.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, using in-memory clipboard", "err", err)
		return NewMemory()
	}
	b := &windowsBackend{
		watchCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go b.pump()
	return b
}

func (b *windowsBackend) Name() string { return "Windows clipboard listener" }

// pump owns the listener window. Window messages are delivered to the
// creating thread, so the goroutine stays locked to it.
func (b *windowsBackend) pump() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	hwnd := C.clipjar_create_listener_window()

	t := time.NewTicker(windowsPumpInterval)
	defer t.Stop()
	for {
		select {
		case <-b.done:
			C.clipjar_destroy_listener_window(hwnd)
			return
		case <-t.C:
			var changed C.int
			C.clipjar_pump_messages(hwnd, &changed)
			if changed != 0 {
				notify(b.watchCh)
			}
		}
	}
}

// Formats adds FormatFiles when Explorer-style CF_HDROP data is present;
// a file copy in Explorer offers no text at all.
func (b *windowsBackend) Formats() Formats {
	fs := systemFormats()
	if C.clipjar_has_hdrop() != 0 {
		fs = fs.With(FormatFiles)
	}
	return fs
}

func (b *windowsBackend) ReadText() (string, error) { return systemReadText() }

// ReadFiles prefers CF_HDROP and falls back to uri-list text.
func (b *windowsBackend) ReadFiles() ([]string, error) {
	if C.clipjar_has_hdrop() == 0 {
		return systemReadFiles()
	}
	var units C.int
	p := C.clipjar_read_hdrop(&units)
	if p == nil {
		return nil, errors.New("read file list: clipboard unavailable")
	}
	defer C.free(unsafe.Pointer(p))
	paths := decodeDropList(unsafe.Slice((*uint16)(unsafe.Pointer(p)), int(units)))
	if len(paths) == 0 {
		return nil, fmt.Errorf("clipboard holds no file list: %w", ErrUnsupported)
	}
	return paths, nil
}

func (b *windowsBackend) WriteText(text string) error {
	_, err := systemWriteText(text)
	return err
}

// WriteFiles places paths on the clipboard as CF_HDROP, so Explorer can
// paste them.
func (b *windowsBackend) WriteFiles(paths []string) error {
	block, err := encodeDropList(paths)
	if err != nil {
		return err
	}
	if C.clipjar_write_hdrop((*C.WCHAR)(unsafe.Pointer(&block[0])), C.size_t(len(block))) == 0 {
		return fmt.Errorf("write file list: %w", ErrWriteFailed)
	}
	return nil
}

func (b *windowsBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *windowsBackend) Close()                 { close(b.done) }
