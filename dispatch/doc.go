// Package dispatch maps files to the commands that run them and invokes the
// project build.
//
// A Dispatcher holds a table of Rules keyed by file extension. Extensions are
// matched exactly and case-sensitively, so "main.PY" is not a Python file.
// Files with an unknown or missing extension produce a fixed message in the
// sink and never spawn a process.
//
// Rule arguments may contain placeholders expanded per file:
//
//	{path}  the file path as given
//	{dir}   the directory containing the file
//	{stem}  the file name without its extension
//	{exe}   ".exe" on Windows, "" elsewhere
//
// The Builder always runs one fixed command. It does not look at the active
// file: it builds the project in the editor's working directory.
package dispatch
