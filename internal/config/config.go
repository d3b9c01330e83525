package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/deckcheck/internal/catalog"
)

const (
	// ErrCodeNotFound 表示 --config 指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

// FileName 是默认配置文件名（位于 cwd，可选）。
const FileName = "deckcheck.json"

const (
	DefaultRequestsPerSecond = 2.0
	DefaultTimeoutSeconds    = 20
)

// CLIArgs 保留“是否显式指定”的信息，保证 --explain=false 能覆盖配置中的 explain=true。
type CLIArgs struct {
	ConfigPath string

	Explain    bool
	ExplainSet bool

	PageCacheDir    string
	PageCacheDirSet bool

	ProxyURL    string
	ProxyURLSet bool
}

// FileConfig 对应 deckcheck.json 的解析结构。
type FileConfig struct {
	CatalogBaseURL    string           `json:"catalog_base_url"`
	Proxy             *ProxyConfig     `json:"proxy"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	TimeoutSeconds    int              `json:"timeout_seconds"`
	PageCache         *PageCacheConfig `json:"page_cache"`
	Explain           *bool            `json:"explain"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

type PageCacheConfig struct {
	Dir      string `json:"dir"`
	ReadOnly bool   `json:"read_only"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置。
type EffectiveConfig struct {
	CatalogBaseURL    string
	ProxyURL          string
	RequestsPerSecond float64
	Timeout           time.Duration

	// PageCacheDir 为空表示不启用页面缓存。
	PageCacheDir      string
	PageCacheReadOnly bool

	Explain bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试 <cwd>/deckcheck.json（可选）
//
// 覆盖优先级：CLI > 配置文件 > 默认值。相对路径以配置文件所在目录为基准。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	required := strings.TrimSpace(cli.ConfigPath) != ""
	cfgPath := filepath.Join(cwdAbs, FileName)
	if required {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
	}

	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if required && !exists {
		return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
	}

	return merge(cwdAbs, filepath.Dir(cfgPath), cli, fc, cfgPath)
}

func merge(cwdAbs, cfgDir string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	baseURL := strings.TrimSpace(fc.CatalogBaseURL)
	if baseURL == "" {
		baseURL = catalog.DefaultBaseURL
	}
	if err := validateHTTPURL(baseURL); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("catalog_base_url 无效：%w", err)}
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if cli.ProxyURLSet {
		proxyURL = strings.TrimSpace(cli.ProxyURL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	// 限速范围 [0.1, 20]；超出截断。
	rps := fc.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	if rps < 0.1 {
		rps = 0.1
	}
	if rps > 20 {
		rps = 20
	}

	timeoutS := fc.TimeoutSeconds
	if timeoutS == 0 {
		timeoutS = DefaultTimeoutSeconds
	}
	if timeoutS < 1 {
		timeoutS = 1
	}
	if timeoutS > 120 {
		timeoutS = 120
	}

	cacheDir := ""
	readOnly := false
	if fc.PageCache != nil {
		readOnly = fc.PageCache.ReadOnly
		if strings.TrimSpace(fc.PageCache.Dir) != "" {
			cacheDir = absCleanFrom(cfgDir, fc.PageCache.Dir)
		}
	}
	if cli.PageCacheDirSet {
		cacheDir = ""
		if strings.TrimSpace(cli.PageCacheDir) != "" {
			cacheDir = absCleanFrom(cwdAbs, cli.PageCacheDir)
		}
	}

	explain := false
	if cli.ExplainSet {
		explain = cli.Explain
	} else if fc.Explain != nil {
		explain = *fc.Explain
	}

	return EffectiveConfig{
		CatalogBaseURL:    strings.TrimRight(baseURL, "/"),
		ProxyURL:          proxyURL,
		RequestsPerSecond: rps,
		Timeout:           time.Duration(timeoutS) * time.Second,
		PageCacheDir:      cacheDir,
		PageCacheReadOnly: readOnly,
		Explain:           explain,
	}, nil
}

func validateHTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("缺少 scheme 或 host：%q", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("必须是 http/https：%q", s)
	}
	return nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
