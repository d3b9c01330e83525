package main

import (
	"go.uber.org/zap"

	"github.com/John-Robertt/deckcheck/internal/catalog"
	"github.com/John-Robertt/deckcheck/internal/config"
	"github.com/John-Robertt/deckcheck/internal/infra/cache"
	"github.com/John-Robertt/deckcheck/internal/infra/httpx"
	"github.com/John-Robertt/deckcheck/internal/legality"
)

// newCatalogClient 按生效配置组装：限速 HTTP client -> Fetcher -> 目录客户端（可选页面缓存）。
func newCatalogClient(eff config.EffectiveConfig, log *zap.Logger) (*catalog.Client, error) {
	hc, err := httpx.NewCatalogClient(httpx.Options{
		ProxyURL:          eff.ProxyURL,
		RequestsPerSecond: eff.RequestsPerSecond,
		Timeout:           eff.Timeout,
	})
	if err != nil {
		return nil, err
	}

	c := &catalog.Client{
		BaseURL: eff.CatalogBaseURL,
		Fetcher: catalog.HTTPFetcher{Client: hc},
		Logger:  log,
	}
	if eff.PageCacheDir != "" {
		c.Pages = cache.New(eff.PageCacheDir, eff.PageCacheReadOnly)
	}
	return c, nil
}

func newValidator(eff config.EffectiveConfig, log *zap.Logger) (*legality.Validator, error) {
	src, err := newCatalogClient(eff, log)
	if err != nil {
		return nil, err
	}
	return legality.NewValidator(legality.NewCache(src), legality.WithLogger(log)), nil
}
