package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system status HTTP requests
type SystemHandler struct {
	BaseHandler
	startedAt time.Time
	version   string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{
		startedAt: time.Now(),
		version:   version,
	}
}

// SystemInfoResponse represents the system info payload
type SystemInfoResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	UptimeSec int64  `json:"uptime_sec"`
}

// Ping godoc
//
//	@Summary	Liveness probe
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=string}
//	@Router		/system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, "pong")
}

// GetSystemInfo godoc
//
//	@Summary	Build and uptime info
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=SystemInfoResponse}
//	@Router		/system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Version:   h.version,
		GoVersion: runtime.Version(),
		UptimeSec: int64(time.Since(h.startedAt).Seconds()),
	})
}
