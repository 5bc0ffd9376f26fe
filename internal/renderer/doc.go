// Package renderer draws the keypad editor on a terminal backend.
//
// The screen is laid out bottom-up so the text row keeps the whole width:
//
//	row 0      buffer content, cursor on the buffer cursor
//	row h-4    separator
//	row h-3    case mode ("Small letters" / "Capital letters")
//	row h-2    last status message
//	row h-1    key help
//
// While a multi-tap cycle is pending the previewed character is drawn in
// reverse video. Content wider than the screen scrolls horizontally so the
// cursor stays visible.
//
// Usage:
//
//	be, _ := backend.NewTerminal()
//	r := renderer.New(be, renderer.DefaultOptions())
//	r.Render(renderer.Frame{View: session.Snapshot()})
package renderer
