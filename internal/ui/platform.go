package ui

import "github.com/atotto/clipboard"

// copyToClipboardFn is swapped out by tests via StubPlatformActions.
var copyToClipboardFn = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard with a recorder and returns a
// restore function. Copied text is appended to sink when sink is non-nil.
func StubPlatformActions(sink *[]string) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = func(text string) error {
		if sink != nil {
			*sink = append(*sink, text)
		}
		return nil
	}
	return func() { copyToClipboardFn = orig }
}
