package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename はアップロードされたファイル名を安全な名前にする。
// ディレクトリ部分は捨て、アクセントを落として英数字と . _ - だけ残す。
// 空白は _ にする
func SanitizeFilename(name string) string {
	//Windowsの区切りも落とす
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	return name
}
