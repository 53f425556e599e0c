package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

// AdminHandler serves staff-only maintenance endpoints. Routes must be
// guarded by middleware.StaffRequired.
type AdminHandler struct {
	cache  cache.PageCache
	groups *services.GroupService
	log    *zap.Logger
}

func NewAdminHandler(pc cache.PageCache, groups *services.GroupService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{cache: pc, groups: groups, log: log}
}

// ClearCache 清空页面缓存
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.cache.Clear(c.Request.Context()); err != nil {
		h.log.Error("清空页面缓存失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache clear failed"})
		return
	}
	h.log.Info("页面缓存已清空", zap.Uint("by", middleware.CurrentUser(c).ID))
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var in services.GroupInput
	_ = c.ShouldBind(&in)

	group, err := h.groups.Create(c.Request.Context(), in)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
			return
		}
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "slug already in use"})
			return
		}
		h.log.Error("创建分组失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, group)
}

// DeleteGroup removes the group; its posts stay, without a group.
func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	err := h.groups.Delete(c.Request.Context(), c.Param("slug"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
	default:
		h.log.Error("删除分组失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
