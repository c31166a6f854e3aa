package order

import "github.com/atotto/clipboard"

// Sink receives a composed order text. A sink failure is informational
// only; it must never touch cart state.
type Sink interface {
	Write(text string) error
}

// Swappable for tests.
var clipboardWriteAll = clipboard.WriteAll

// ClipboardSink copies the order text to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Write(text string) error {
	return clipboardWriteAll(text)
}
