// Package ui holds the embedded HTML templates served by the application.
package ui

import "embed"

//go:embed html
var Files embed.FS
