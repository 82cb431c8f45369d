// Package web holds the browser assets served under /assets/.
package web

import "embed"

//go:embed static
var StaticFS embed.FS
