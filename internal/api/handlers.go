package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"url-roaster/internal/jobs"
	"url-roaster/internal/roast"
	"url-roaster/internal/scrape"
	"url-roaster/internal/script"
)

// ScriptWriter is the fetch+compose half of the pipeline, abstracted so
// handler tests can substitute fakes.
type ScriptWriter interface {
	WriteScript(ctx context.Context, pageURL string, persona script.Persona) (*roast.Script, error)
}

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// POST /api/script
// Runs fetch+compose. Each failure stage maps to its own message so the
// user knows what broke; none of these cost video credits.
func GenerateScriptHandler(writer ScriptWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			URL     string `json:"url"`
			Persona string `json:"persona"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a URL first."})
			return
		}

		persona, err := script.ParsePersona(req.Persona)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Choose a persona: roast or hype."})
			return
		}

		result, err := writer.WriteScript(c.Request.Context(), req.URL, persona)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{
				"url":     result.SourceURL,
				"persona": result.Persona.String(),
				"script":  result.Text,
			})
		case errors.Is(err, scrape.ErrEmptyContent):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "That page has no readable text to work with."})
		case errors.Is(err, scrape.ErrFetch):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not scrape text from that URL."})
		case errors.Is(err, script.ErrGeneration):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Script generation failed. Check the Gemini API key or quota."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Script step failed: " + err.Error()})
		}
	}
}

// POST /api/video
// Starts a billable render job. Requires the explicit confirm flag set by
// the cost-warning button in the form; the server never triggers this on
// its own.
func GenerateVideoHandler(manager *jobs.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Script  string `json:"script"`
			Confirm bool   `json:"confirm"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
			return
		}
		if !req.Confirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Video generation costs API credits. Confirm to proceed."})
			return
		}

		job, err := manager.Create(req.Script)
		switch {
		case err == nil:
			c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID, "status": job.Status})
		case errors.Is(err, jobs.ErrEmptyScript):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Generate a script before requesting a video."})
		case errors.Is(err, jobs.ErrJobAlreadyRunning):
			c.JSON(http.StatusConflict, gin.H{"error": "A video job is already running. Wait for it to finish."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start video job: " + err.Error()})
		}
	}
}

// GET /api/video/:id
// Status snapshot for the browser's poll loop.
func VideoStatusHandler(manager *jobs.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := manager.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job id."})
			return
		}
		c.JSON(http.StatusOK, job)
	}
}
