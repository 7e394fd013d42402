// Package quill is a terminal source editor with a file explorer, tabbed
// editing and an embedded command panel.
package quill

// Version is the current Quill release.
const Version = "0.3.0"
