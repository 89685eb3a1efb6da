package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	syncservice "github.com/novelhelper/backend/internal/service/sync"
	"k8s.io/klog/v2"
)

type SyncHandler struct {
	service *syncservice.Service
}

func NewSyncHandler(service *syncservice.Service) *SyncHandler {
	return &SyncHandler{service: service}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	syncGroup := router.Group("/sync")
	{
		syncGroup.POST("", h.Start)
		syncGroup.GET("/status/:sync_id", h.Status)
	}
}

// Start 启动一次后台同步，返回 sync_id 供轮询
func (h *SyncHandler) Start(c *gin.Context) {
	status, err := h.service.Start()
	if err != nil {
		klog.Errorf("[sync.Start] 启动同步失败: error=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Status 查询同步进度快照
func (h *SyncHandler) Status(c *gin.Context) {
	status, ok := h.service.GetStatus(c.Param("sync_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sync not found"})
		return
	}

	c.JSON(http.StatusOK, status)
}
