package web

import "embed"

// HTMLテンプレートと静的ファイル（CSS）
//
//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
