package web

import "embed"

// FS contains the static assets served under /static: stylesheet, page
// script and the umbrella illustrations.
//
//go:embed static/*
var FS embed.FS
