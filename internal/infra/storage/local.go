package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"storefront/pkg/e"

	"github.com/jimlawless/whereami"
)

// ローカルディスクに保存する。/static/images 配下で配信する想定
type LocalStorage struct {
	dir     string
	baseURL string
	urlPath string
}

// dirは保存先、baseURLはPUBLIC_BASE_URL、urlPathは配信パス（/static/images）
func NewLocalStorage(dir, baseURL, urlPath string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return &LocalStorage{dir: dir, baseURL: baseURL, urlPath: urlPath}, nil
}

// 同名ファイルは上書きする
func (s *LocalStorage) Save(_ context.Context, filename string, r io.Reader, _ int64, _ string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	return s.baseURL + s.urlPath + "/" + name, nil
}
