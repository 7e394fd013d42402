// Package sink provides the shared output log behind the command panel.
//
// A Sink is created once per application and shared by reference with every
// background task and with the display. All writers go through Append, which
// serialises access with a single mutex. Entries carry a sequence number and
// a source tag so interleaved output from concurrent tasks can be told apart.
//
// # Usage
//
//	s := sink.New()
//	s.Append("editor", sink.KindStatus, "Terminal Ready\n")
//	fmt.Print(s.Snapshot())
//
// The display never holds the lock while rendering: it takes a Snapshot and
// may show slightly stale contents if a task appends concurrently.
package sink
