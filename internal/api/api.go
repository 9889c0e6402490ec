// Package api serves the stored tournament snapshot over HTTP as JSON.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/liquipedia-results/internal/logger"
	"github.com/pfrederiksen/liquipedia-results/internal/storage"
	"github.com/pfrederiksen/liquipedia-results/internal/tournament"
)

// SnapshotSource provides the snapshot to serve. *storage.Storage satisfies it.
type SnapshotSource interface {
	LoadSnapshot() (*storage.Snapshot, error)
}

// Handler serves tournaments from a snapshot source
type Handler struct {
	source SnapshotSource
}

// NewRouter builds the gin engine with every route registered
func NewRouter(source SnapshotSource) *gin.Engine {
	h := &Handler{source: source}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", h.Health)
	r.GET("/metrics", Metrics)
	r.GET("/tournaments", h.ListTournaments)
	r.GET("/tournaments/*url", h.GetTournament)

	return r
}

// TournamentSummary is the list view of a tournament
type TournamentSummary struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Game        string    `json:"game"`
	Tier        string    `json:"tier"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Prize       string    `json:"prize"`
	Cancelled   bool      `json:"cancelled"`
	FirstPlace  string    `json:"first_place,omitempty"`
	SecondPlace string    `json:"second_place,omitempty"`
}

func summarize(t *tournament.Tournament) TournamentSummary {
	return TournamentSummary{
		URL:         t.URL,
		Name:        t.Name,
		Game:        t.Game,
		Tier:        t.Tier,
		Start:       t.Start,
		End:         t.End,
		Prize:       t.Prize,
		Cancelled:   t.Cancelled,
		FirstPlace:  t.FirstPlace,
		SecondPlace: t.SecondPlace,
	}
}

// Health reports liveness and the age of the snapshot
func (h *Handler) Health(c *gin.Context) {
	snap, err := h.source.LoadSnapshot()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"updated_at":  snap.UpdatedAt,
		"tournaments": len(snap.Tournaments),
	})
}

// ListTournaments lists tournaments most recent first, optionally for one game
func (h *Handler) ListTournaments(c *gin.Context) {
	snap, err := h.source.LoadSnapshot()
	if err != nil {
		h.fail(c, err)
		return
	}

	list := snap.List()
	if game := c.Query("game"); game != "" {
		list = snap.ByGame(game)
	}

	summaries := make([]TournamentSummary, 0, len(list))
	for _, t := range list {
		summaries = append(summaries, summarize(t))
	}
	c.JSON(http.StatusOK, summaries)
}

// GetTournament returns one tournament. ?view=matches returns only its matches.
func (h *Handler) GetTournament(c *gin.Context) {
	url := "/" + strings.Trim(c.Param("url"), "/")

	snap, err := h.source.LoadSnapshot()
	if err != nil {
		h.fail(c, err)
		return
	}

	t, ok := snap.Tournaments[url]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tournament not found", "url": url})
		return
	}

	switch c.Query("view") {
	case "", "full":
		c.JSON(http.StatusOK, t)
	case "matches":
		c.JSON(http.StatusOK, t.Matches)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view: " + c.Query("view")})
	}
}

// Metrics returns the in-process counters, gauges and timings
func Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, logger.GetMetricsSnapshot())
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.Error("loading snapshot", logger.Fields{"path": c.Request.URL.Path}, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot unavailable"})
}

// requestLogger logs one line per request through the package logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request", logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		logger.RecordTiming("api.request", time.Since(start))
	}
}
