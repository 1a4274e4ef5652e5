// Package ciutil centralizes environment detection for tooling and tests.
//
// It knows which environment variables name the project root and the test
// database, how to locate the migrations source directory from anywhere in
// the tree, and how to mask credentials before values reach a log line.
package ciutil
