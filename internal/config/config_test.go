package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/John-Robertt/deckcheck/internal/catalog"
)

func TestLoadEffective_DefaultsWithoutFile(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.CatalogBaseURL != catalog.DefaultBaseURL {
		t.Fatalf("期望默认 base url，实际 %q", eff.CatalogBaseURL)
	}
	if eff.RequestsPerSecond != DefaultRequestsPerSecond {
		t.Fatalf("期望默认限速，实际 %v", eff.RequestsPerSecond)
	}
	if eff.Timeout != DefaultTimeoutSeconds*time.Second {
		t.Fatalf("期望默认超时，实际 %v", eff.Timeout)
	}
	if eff.PageCacheDir != "" || eff.Explain {
		t.Fatalf("默认不启用页面缓存与解释：%+v", eff)
	}
}

func TestLoadEffective_ExplicitConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "missing.json"})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeNotFound, err, Code(err))
	}
}

func TestLoadEffective_ExplainCLIOverride(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"explain":true}`))

	eff, err := LoadEffective(cwd, CLIArgs{Explain: false, ExplainSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Explain {
		t.Fatalf("期望 explain=false（CLI 覆盖），实际 true")
	}

	eff, err = LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !eff.Explain {
		t.Fatalf("期望 explain=true（来自配置文件）")
	}
}

func TestLoadEffective_PageCacheRelativeToConfig(t *testing.T) {
	cwd := t.TempDir()
	sub := filepath.Join(cwd, "conf")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(sub, "my.json"), []byte(`{"page_cache":{"dir":"pages","read_only":true}}`))

	eff, err := LoadEffective(cwd, CLIArgs{ConfigPath: "conf/my.json"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if want := filepath.Join(sub, "pages"); eff.PageCacheDir != want {
		t.Fatalf("期望 page cache=%q，实际 %q", want, eff.PageCacheDir)
	}
	if !eff.PageCacheReadOnly {
		t.Fatalf("期望 read_only=true")
	}

	// CLI 显式给空值：关闭页面缓存。
	eff, err = LoadEffective(cwd, CLIArgs{ConfigPath: "conf/my.json", PageCacheDirSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.PageCacheDir != "" {
		t.Fatalf("期望关闭页面缓存，实际 %q", eff.PageCacheDir)
	}
}

func TestLoadEffective_ClampsRateAndTimeout(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"requests_per_second":500,"timeout_seconds":-3}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.RequestsPerSecond != 20 {
		t.Fatalf("期望限速截断为 20，实际 %v", eff.RequestsPerSecond)
	}
	if eff.Timeout != time.Second {
		t.Fatalf("期望超时截断为 1s，实际 %v", eff.Timeout)
	}
}

func TestLoadEffective_InvalidBaseURL(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"catalog_base_url":"ftp://example.test"}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidProxyURL(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ProxyURL: "http://[::1", ProxyURLSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
