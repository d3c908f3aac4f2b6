package handlers

import (
	"context"
	"fmt"

	"jielong/internal/services"
	"jielong/internal/utils"
)

const (
	listCachePrefix = "work:list:"
)

func detailCacheKey(workID string) string {
	return fmt.Sprintf("work:detail:%s", workID)
}

func htmlCacheKey(workID string) string {
	return fmt.Sprintf("work:html:%s", workID)
}

// ViewCachePurger 订阅作品事件，清除对应的详情页和列表页缓存
type ViewCachePurger struct {
	cache *utils.Cache
}

func NewViewCachePurger(cache *utils.Cache) *ViewCachePurger {
	return &ViewCachePurger{cache: cache}
}

func (p *ViewCachePurger) Publish(_ context.Context, ev services.Event) error {
	p.cache.Delete(detailCacheKey(ev.WorkID))
	p.cache.Delete(htmlCacheKey(ev.WorkID))
	p.cache.DeletePrefix(listCachePrefix)
	return nil
}
