// Package embedded holds the paint catalog compiled into the binary.
package embedded

import (
	"embed"
)

// FS embeds the catalog yaml files at build time: manufacturers.yaml plus
// one file per brand series and one specs file per brand.
//
//go:embed catalog/*
var FS embed.FS
