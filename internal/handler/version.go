package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/internal/eventbus"
	"github.com/novelhelper/backend/internal/repository"
	"github.com/novelhelper/backend/internal/service"
)

type VersionHandler struct {
	bus     *eventbus.DocEventBus
	service *service.DocumentService
}

func NewVersionHandler(bus *eventbus.DocEventBus, service *service.DocumentService) *VersionHandler {
	return &VersionHandler{
		bus:     bus,
		service: service,
	}
}

// Create 在分支上保存一个新版本
func (h *VersionHandler) Create(c *gin.Context) {
	var req service.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.service.CreateVersion(req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.DocEventUpdated, eventbus.DocEvent{
		Type:      eventbus.DocEventUpdated,
		VersionID: version.ID,
	})
	c.JSON(http.StatusOK, version)
}

// Get 获取版本及其正文
func (h *VersionHandler) Get(c *gin.Context) {
	version, err := h.service.GetVersion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
		return
	}

	c.JSON(http.StatusOK, version)
}

// Update 原地重写版本正文
func (h *VersionHandler) Update(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
		Title   string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.service.UpdateVersion(c.Param("id"), req.Content, req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if version == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.DocEventUpdated, eventbus.DocEvent{
		Type:      eventbus.DocEventUpdated,
		VersionID: version.ID,
	})
	c.JSON(http.StatusOK, version)
}

// Delete 删除版本
func (h *VersionHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteVersion(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "version deleted"})
}

// GetDiff 获取版本与其前驱之间的 diff 文本
func (h *VersionHandler) GetDiff(c *gin.Context) {
	patch, err := h.service.GetVersionDiff(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"diff": patch})
}

// GetSections 获取版本下章节列表
func (h *VersionHandler) GetSections(c *gin.Context) {
	sections, err := h.service.ListSections(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sections)
}
