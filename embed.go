package folio

import "embed"

// EmbeddedAssets contains files shipped with the binary: the fallback
// favicon.svg and the service worker template sw.js.tmpl.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
