package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/internal/repository"
	"github.com/novelhelper/backend/internal/service"
)

type BranchHandler struct {
	service *service.DocumentService
}

func NewBranchHandler(service *service.DocumentService) *BranchHandler {
	return &BranchHandler{service: service}
}

// Create 在文档下创建分支
func (h *BranchHandler) Create(c *gin.Context) {
	var req service.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch, err := h.service.CreateBranch(req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, branch)
}

// Get 获取单个分支
func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.service.GetBranch(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
		return
	}

	c.JSON(http.StatusOK, branch)
}

// Update 重命名分支
func (h *BranchHandler) Update(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch, err := h.service.UpdateBranch(c.Param("id"), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if branch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
		return
	}

	c.JSON(http.StatusOK, branch)
}

// Delete 删除分支及其全部版本
func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteBranch(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "branch deleted"})
}

// GetVersions 获取分支下版本列表
func (h *BranchHandler) GetVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, versions)
}

// GetLatestVersion 获取分支的最新版本
func (h *BranchHandler) GetLatestVersion(c *gin.Context) {
	version, err := h.service.GetLatestVersion(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "version not found"})
		return
	}

	c.JSON(http.StatusOK, version)
}
