// Package filesystem provides directory traversal for the editor's explorer.
//
// # Overview
//
// This package builds the explorer tree while respecting common ignore rules:
//   - Smart directory traversal (skip node_modules, .git, target, vendor)
//   - Depth-limited walking (the explorer shows three levels by default)
//   - Glob ignore patterns ("*.tmp", "**/*.log")
//   - A debounced watcher that reports when the tree should be rebuilt
//
// # Usage
//
// Build the tree for a folder and show only expanded branches:
//
//	nodes, err := filesystem.BuildTree(".", filesystem.WalkOptions{MaxDepth: 3})
//	visible := filesystem.Visible(nodes, expanded)
//
// Watch for changes:
//
//	w, err := filesystem.NewWatcher(".", filesystem.WalkOptions{})
//	defer w.Close()
//	for range w.Changes() {
//	    // rebuild
//	}
package filesystem
