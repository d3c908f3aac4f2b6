package handlers

import (
	"fmt"
	"net/http"
	"time"

	"jielong/internal/middleware"
	"jielong/internal/models"
	"jielong/internal/services"
	"jielong/internal/utils"

	"github.com/gin-gonic/gin"
)

type WorkHandler struct {
	works *services.WorkService
	cache *utils.Cache
}

func NewWorkHandler(works *services.WorkService, cache *utils.Cache) *WorkHandler {
	return &WorkHandler{works: works, cache: cache}
}

// List 作品列表，匿名访问的结果缓存 1 分钟
func (h *WorkHandler) List(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	in := services.ListWorksInput{
		ViewerID: viewerID,
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     utils.PageParam(c.Query("page")),
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%d", listCachePrefix, in.Category, in.Status, in.Page)
	if viewerID == "" {
		if cached, ok := h.cache.Get(cacheKey).(gin.H); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	works, total, err := h.works.List(c.Request.Context(), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	if works == nil {
		works = []models.Work{}
	}

	data := gin.H{
		"works":       works,
		"total":       total,
		"page":        in.Page,
		"total_pages": services.TotalPages(total),
	}
	if viewerID == "" {
		h.cache.Set(cacheKey, data, time.Minute)
	}
	c.JSON(http.StatusOK, data)
}

// Detail 公开作品的详情在所有用户间共享缓存
func (h *WorkHandler) Detail(c *gin.Context) {
	workID := c.Param("id")
	cacheKey := detailCacheKey(workID)
	if cached, ok := h.cache.Get(cacheKey).(*models.Work); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	work, err := h.works.Get(c.Request.Context(), workID, middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	if work.Visibility == models.VisibilityPublic {
		h.cache.Set(cacheKey, work, 5*time.Minute)
	}
	c.JSON(http.StatusOK, work)
}

// HTML 作品全文渲染为 HTML 片段
func (h *WorkHandler) HTML(c *gin.Context) {
	workID := c.Param("id")
	cacheKey := htmlCacheKey(workID)
	if cached, ok := h.cache.Get(cacheKey).(string); ok {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(cached))
		return
	}

	work, err := h.works.Get(c.Request.Context(), workID, middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	contents := make([]string, 0, len(work.Contributions))
	closing := ""
	for _, contribution := range work.Contributions {
		if contribution.IsClosing() {
			closing = contribution.Content
			continue
		}
		contents = append(contents, contribution.Content)
	}
	rendered := string(utils.RenderWork(work.Rule == models.RuleCharacter, contents, closing))

	if work.Visibility == models.VisibilityPublic {
		h.cache.Set(cacheKey, rendered, 5*time.Minute)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(rendered))
}

func (h *WorkHandler) Create(c *gin.Context) {
	var in services.CreateWorkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	work, err := h.works.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, work)
}

func (h *WorkHandler) Update(c *gin.Context) {
	var in services.UpdateWorkInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	work, err := h.works.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, work)
}

func (h *WorkHandler) Delete(c *gin.Context) {
	if err := h.works.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
