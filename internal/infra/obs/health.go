package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes endpoints for liveness and readiness checks.
// Readiness fans out to every registered probe (mongo ping, kafka, redis).
type HealthHandlers struct {
	Probes map[string]func() error
}

func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	failures := gin.H{}
	for name, probe := range h.Probes {
		if probe == nil {
			continue
		}
		if err := probe(); err != nil {
			failures[name] = err.Error()
		}
	}
	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "failures": failures})
		return
	}
	c.Status(http.StatusOK)
}
