package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/John-Robertt/deckcheck/internal/catalog"
	"github.com/John-Robertt/deckcheck/internal/infra/fsx"
)

// Store 提供 <root>/printings/ 下的目录页面文件缓存（实现 catalog.PageStore）。
//
// 约束：
// - 只缓存 printings 页面（按 multiverseid 命名，标识符稳定）
// - ReadOnly=true：只读，写入返回 catalog.ErrReadOnly
type Store struct {
	Root     string
	ReadOnly bool
}

// ErrReadOnly 与 catalog.ErrReadOnly 相同，便于调用方不依赖 catalog 判断。
var ErrReadOnly = catalog.ErrReadOnly

var _ catalog.PageStore = Store{}

func New(root string, readOnly bool) Store {
	return Store{
		Root:     filepath.Clean(strings.TrimSpace(root)),
		ReadOnly: readOnly,
	}
}

// PrintingsPath 返回某个标识符的页面缓存路径。
func (s Store) PrintingsPath(id int) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("multiverseid 必须为正数：%d", id)
	}
	return filepath.Join(s.Root, "printings", strconv.Itoa(id)+".html"), nil
}

func (s Store) ReadPrintings(id int) ([]byte, bool, error) {
	path, err := s.PrintingsPath(id)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s Store) WritePrintings(id int, html []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if _, err := s.PrintingsPath(id); err != nil {
		return err
	}
	return fsx.WriteFileAtomic(filepath.Join(s.Root, "printings"), strconv.Itoa(id)+".html", html)
}
