package server

import (
	"net/http"

	"amber-server/internal/engine"

	"github.com/gin-gonic/gin"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/sessions", h.handleListSessions)
	g.GET("/sessions/:id", h.handleSession)
	g.GET("/balance", h.handleBalance)
	g.GET("/replays", h.handleReplays)
	g.GET("/stats", h.handleStats)
}

// /debug/sessions - активные энкаунтеры
func (h *DebugHandler) handleListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Sessions())
}

// /debug/sessions/:id - последний снимок энкаунтера
func (h *DebugHandler) handleSession(c *gin.Context) {
	inst, ok := h.Service.Session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, inst.Snapshot())
}

// /debug/balance - действующая таблица баланса
func (h *DebugHandler) handleBalance(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Balance())
}

// /debug/replays - сохранённые файлы реплеев
func (h *DebugHandler) handleReplays(c *gin.Context) {
	if h.Service.Replays == nil {
		c.JSON(http.StatusOK, []string{})
		return
	}
	files, err := h.Service.Replays.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if files == nil {
		files = []string{}
	}
	c.JSON(http.StatusOK, files)
}

func (h *DebugHandler) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessions":    len(h.Service.Sessions()),
		"subscribers": h.Service.Hub.SubscriberCount(),
	})
}
