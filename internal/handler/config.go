package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/novelhelper/backend/config"
)

type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type ConfigResponse struct {
	Sync SyncConfigResponse `json:"sync"`
	Data DataConfigResponse `json:"data"`
}

type SyncConfigResponse struct {
	TargetServer   string `json:"target_server"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type DataConfigResponse struct {
	Dir        string `json:"dir"`
	ContentDir string `json:"content_dir"`
}

// Get 返回当前可调整的配置项
func (h *ConfigHandler) Get(c *gin.Context) {
	resp := ConfigResponse{
		Sync: SyncConfigResponse{
			TargetServer:   h.cfg.Sync.TargetServer,
			TimeoutSeconds: int(h.cfg.Sync.Timeout / time.Second),
		},
		Data: DataConfigResponse{
			Dir:        h.cfg.Data.Dir,
			ContentDir: h.cfg.Data.ContentDir,
		},
	}

	c.JSON(http.StatusOK, resp)
}

type UpdateConfigRequest struct {
	Sync *SyncConfigRequest `json:"sync,omitempty"`
}

type SyncConfigRequest struct {
	TargetServer   string `json:"target_server,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Update 更新配置并持久化到配置文件
func (h *ConfigHandler) Update(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Sync != nil {
		if req.Sync.TargetServer != "" {
			h.cfg.Sync.TargetServer = req.Sync.TargetServer
		}
		if req.Sync.TimeoutSeconds > 0 {
			h.cfg.Sync.Timeout = time.Duration(req.Sync.TimeoutSeconds) * time.Second
		}
	}

	config.UpdateConfig(h.cfg)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := h.cfg.Save(configPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "config updated"})
}
