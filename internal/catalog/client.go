package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/John-Robertt/deckcheck/internal/domain"
)

// DefaultBaseURL 是目录站点的默认域名。
const DefaultBaseURL = "https://gatherer.wizards.com"

const (
	detailsPath   = "/Pages/Card/Details.aspx?name="
	printingsPath = "/Pages/Card/Printings.aspx?multiverseid="
)

// Fetcher 是传输层协作者：给定 URL 返回响应体。
//
// 约束：不做缓存、不做重试、不跟随重定向（3xx 以 *HTTPStatusError 返回）。
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ErrReadOnly 由只读的 PageStore 在 WritePrintings 时返回；Client 会静默跳过写入。
var ErrReadOnly = errors.New("page store: read-only")

// PageStore 是 printings 页面的可选持久缓存（由上层决定是否启用）。
type PageStore interface {
	ReadPrintings(id int) ([]byte, bool, error)
	WritePrintings(id int, html []byte) error
}

// Client 负责“定位页面 + 解析 HTML”，网络策略由 Fetcher 决定。
type Client struct {
	// BaseURL 为空时使用 DefaultBaseURL。
	BaseURL string
	Fetcher Fetcher
	// Pages 为 nil 时不使用页面缓存。
	Pages  PageStore
	Logger *zap.Logger
}

func (c *Client) baseURL() string {
	u := strings.TrimSpace(c.BaseURL)
	if u == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// DetailsURL 返回按卡名查询的 URL（空格编码为 %20）。
func (c *Client) DetailsURL(name string) string {
	q := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(name)), "+", "%20")
	return c.baseURL() + detailsPath + q
}

// PrintingsURL 返回某个标识符的 printings/合法性页面 URL。
func (c *Client) PrintingsURL(id int) string {
	return c.baseURL() + printingsPath + strconv.Itoa(id)
}

// LookupID 按卡名查询目录标识符。
//
// 站点可能直接 302 到详情页：此时不跟随，直接从 Location 中读取标识符；
// 否则在响应体中定位第一个 multiverseid。
func (c *Client) LookupID(ctx context.Context, name string) (int, error) {
	if c.Fetcher == nil {
		return 0, errors.New("fetcher 不能为空")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("卡名不能为空")
	}

	body, err := c.Fetcher.Fetch(ctx, c.DetailsURL(name))
	if err != nil {
		var se *HTTPStatusError
		if errors.As(err, &se) && se.Redirect() {
			if id, perr := ParseMultiverseID(se.Location); perr == nil {
				return id, nil
			}
			return 0, &NotFoundError{Name: name}
		}
		return 0, err
	}

	id, err := ParseMultiverseID(string(body))
	if err != nil {
		return 0, &NotFoundError{Name: name}
	}
	return id, nil
}

// Legality 获取标识符对应的 printings 页面并解析合法性。
// 页面缓存命中时不发起网络请求；缓存读写失败只记录日志。
func (c *Client) Legality(ctx context.Context, id int) (domain.Legality, error) {
	if id <= 0 {
		return nil, errors.New("multiverseid 必须为正数")
	}

	if c.Pages != nil {
		b, ok, err := c.Pages.ReadPrintings(id)
		switch {
		case err != nil:
			c.logger().Warn("读取页面缓存失败", zap.Int("multiverseid", id), zap.Error(err))
		case ok:
			c.logger().Debug("页面缓存命中", zap.Int("multiverseid", id))
			return ExtractLegality(b)
		}
	}

	if c.Fetcher == nil {
		return nil, errors.New("fetcher 不能为空")
	}
	body, err := c.Fetcher.Fetch(ctx, c.PrintingsURL(id))
	if err != nil {
		return nil, err
	}

	legality, err := ExtractLegality(body)
	if err != nil {
		return nil, err
	}

	// 只缓存可解析的页面，避免把错误页面固化到磁盘。
	if c.Pages != nil {
		if err := c.Pages.WritePrintings(id, body); err != nil && !errors.Is(err, ErrReadOnly) {
			c.logger().Warn("写入页面缓存失败", zap.Int("multiverseid", id), zap.Error(err))
		}
	}
	return legality, nil
}

// HTTPFetcher 用 *http.Client 实现 Fetcher。
// 客户端应配置为不跟随重定向（见 httpx.NewCatalogClient），否则 Location 不可见。
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	if f.Client == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}
	return io.ReadAll(resp.Body)
}
