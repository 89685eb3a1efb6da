package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/internal/eventbus"
	"github.com/novelhelper/backend/internal/service"
)

type DocumentHandler struct {
	bus     *eventbus.DocEventBus
	service *service.DocumentService
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(bus *eventbus.DocEventBus, service *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		bus:     bus,
		service: service,
	}
}

// Create 创建文档
func (h *DocumentHandler) Create(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.CreateDocument(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.DocEventCreated, eventbus.DocEvent{
		Type:       eventbus.DocEventCreated,
		DocumentID: doc.ID,
	})
	c.JSON(http.StatusOK, doc)
}

// List 文档列表，支持 q 参数做标题搜索
func (h *DocumentHandler) List(c *gin.Context) {
	query := c.Query("q")

	var err error
	var docs interface{}
	if query != "" {
		docs, err = h.service.SearchDocuments(query)
	} else {
		docs, err = h.service.ListDocuments()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, docs)
}

// Get 获取单个文档
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.GetDocument(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Update 更新文档标题与简介
func (h *DocumentHandler) Update(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Synopsis string `json:"synopsis"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.UpdateDocument(c.Param("id"), req.Title, req.Synopsis)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.DocEventUpdated, eventbus.DocEvent{
		Type:       eventbus.DocEventUpdated,
		DocumentID: doc.ID,
	})
	c.JSON(http.StatusOK, doc)
}

// Delete 删除文档及其全部分支、版本、章节
func (h *DocumentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteDocument(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.bus.Publish(c.Request.Context(), eventbus.DocEventDeleted, eventbus.DocEvent{
		Type:       eventbus.DocEventDeleted,
		DocumentID: id,
	})
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

// GetBranches 获取文档下分支列表
func (h *DocumentHandler) GetBranches(c *gin.Context) {
	branches, err := h.service.ListBranches(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branches)
}

// GetMainBranch 获取文档的主分支
func (h *DocumentHandler) GetMainBranch(c *gin.Context) {
	branch, err := h.service.GetMainBranch(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "main branch not found"})
		return
	}

	c.JSON(http.StatusOK, branch)
}
