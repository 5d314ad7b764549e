package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"url-roaster/internal/jobs"
)

// SetupRouter builds the gin engine for the web front end.
func SetupRouter(writer ScriptWriter, manager *jobs.Manager) *gin.Engine {
	r := gin.Default()

	// Load HTML templates
	r.LoadHTMLFiles("./frontend/index.html")

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{})
	})

	r.GET("/health", healthHandler)

	group := r.Group("/api")
	{
		group.POST("/script", GenerateScriptHandler(writer))
		group.POST("/video", GenerateVideoHandler(manager))
		group.GET("/video/:id", VideoStatusHandler(manager))
	}
	return r
}
