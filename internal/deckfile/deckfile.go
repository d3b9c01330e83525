// Package deckfile 读取 TOML 格式的牌组清单，转换为 domain.Deck。
//
// 格式：
//
//	name = "Mono Black"
//
//	[[cards]]
//	name = "Dark Ritual"
//	count = 4
//	multiverseid = 221510   # 可选
package deckfile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/John-Robertt/deckcheck/internal/domain"
)

type fileDeck struct {
	Name  string     `toml:"name"`
	Cards []fileCard `toml:"cards"`
}

type fileCard struct {
	Name         string `toml:"name"`
	Count        int    `toml:"count"`
	MultiverseID int    `toml:"multiverseid"`
}

// Error 描述牌组文件中的问题；Entry 为 0 表示文件级错误，否则是 1-based 的 [[cards]] 序号。
type Error struct {
	Path  string
	Entry int
	Err   error
}

func (e *Error) Error() string {
	if e.Entry > 0 {
		return fmt.Sprintf("牌组文件 %q 第 %d 张卡牌无效：%v", e.Path, e.Entry, e.Err)
	}
	return fmt.Sprintf("牌组文件 %q 无效：%v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load 读取 path 指向的牌组文件。
func Load(path string) (*domain.Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return Parse(path, string(b))
}

// Parse 解析牌组文本。path 只用于错误信息与缺省牌组名。
//
// 规则：
// - 未知字段视为错误（拼写错误不应被静默忽略）
// - 卡名为空、count <= 0 报错；count > 4 按 domain.Deck 的规则截断
// - 同名条目累加（累加后超过 4 张由合法性计算判定为 ILLEGAL）
func Parse(path, text string) (*domain.Deck, error) {
	var fd fileDeck
	md, err := toml.Decode(text, &fd)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, &Error{Path: path, Err: fmt.Errorf("未知字段：%s", strings.Join(keys, ", "))}
	}

	name := strings.TrimSpace(fd.Name)
	if name == "" {
		name = defaultName(path)
	}
	deck := domain.NewDeck(name)
	for i, c := range fd.Cards {
		if strings.TrimSpace(c.Name) == "" {
			return nil, &Error{Path: path, Entry: i + 1, Err: fmt.Errorf("缺少 name")}
		}
		if c.Count <= 0 {
			return nil, &Error{Path: path, Entry: i + 1, Err: fmt.Errorf("count 必须为正数，实际 %d", c.Count)}
		}
		if c.MultiverseID < 0 {
			return nil, &Error{Path: path, Entry: i + 1, Err: fmt.Errorf("multiverseid 不能为负数，实际 %d", c.MultiverseID)}
		}
		deck.AddWithID(c.Name, c.MultiverseID, c.Count)
	}
	return deck, nil
}

func defaultName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".toml")
}
