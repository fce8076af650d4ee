package health

import (
	"net/http"
	"runtime"
	"time"

	chatService "recipe-chat/internal/core/chat"
	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the health check body.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Corpus    *CorpusStatus          `json:"corpus,omitempty"`
}

// CorpusStatus reports retrieval readiness.
type CorpusStatus struct {
	Recipes    int  `json:"recipes"`
	IndexBuilt bool `json:"index_built"`
}

// HealthCheck reports process health and runtime stats.
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	conf, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   conf.App.Version,
		Runtime: map[string]interface{}{
			"goroutines":  runtime.NumGoroutine(),
			"alloc_bytes": mem.Alloc,
			"go_version":  runtime.Version(),
		},
	}

	if svc := chatFromContext(c); svc != nil {
		resp.Corpus = &CorpusStatus{
			Recipes:    svc.CorpusSize(),
			IndexBuilt: svc.IndexBuilt(),
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck reports whether the retrieval pipeline can serve queries.
// An empty corpus is still ready: every query returns a no-match answer.
func ReadinessCheck(c *gin.Context) {
	svc := chatFromContext(c)
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "chat service not initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"corpus": CorpusStatus{
			Recipes:    svc.CorpusSize(),
			IndexBuilt: svc.IndexBuilt(),
		},
	})
}

// LivenessCheck reports that the process is alive.
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func chatFromContext(c *gin.Context) *chatService.Service {
	val, exists := c.Get("chat_service")
	if !exists {
		return nil
	}
	svc, ok := val.(*chatService.Service)
	if !ok {
		return nil
	}
	return svc
}
