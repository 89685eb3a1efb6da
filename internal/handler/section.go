package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/internal/repository"
	"github.com/novelhelper/backend/internal/service"
)

type SectionHandler struct {
	service *service.DocumentService
}

func NewSectionHandler(service *service.DocumentService) *SectionHandler {
	return &SectionHandler{service: service}
}

// Create 在版本下创建章节
func (h *SectionHandler) Create(c *gin.Context) {
	var req service.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.service.CreateSection(req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, section)
}

// Get 获取章节及其正文
func (h *SectionHandler) Get(c *gin.Context) {
	section, err := h.service.GetSection(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	c.JSON(http.StatusOK, section)
}

// Update 更新章节标题、正文与排序
func (h *SectionHandler) Update(c *gin.Context) {
	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.service.UpdateSection(c.Param("id"), req.Title, req.Content, req.SortOrder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if section == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	c.JSON(http.StatusOK, section)
}

// Delete 删除章节
func (h *SectionHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteSection(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}
