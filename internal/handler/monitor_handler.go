package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/middleware"
	"github.com/examgrid/examgrid-backend/internal/response"
	"github.com/examgrid/examgrid-backend/internal/service"
	ws "github.com/examgrid/examgrid-backend/internal/websocket"
)

const keepAliveInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live grading results to exam authors.
type MonitorHandler struct {
	rdb               *redis.Client
	examService       *service.ExamService
	submissionService *service.SubmissionService
	log               zerolog.Logger
	upgrader          websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(
	rdb *redis.Client,
	examService *service.ExamService,
	submissionService *service.SubmissionService,
	log zerolog.Logger,
	allowedOrigins []string,
) *MonitorHandler {
	return &MonitorHandler{
		rdb:               rdb,
		examService:       examService,
		submissionService: submissionService,
		log:               log.With().Str("component", "monitor_handler").Logger(),
		upgrader:          buildUpgrader(allowedOrigins),
	}
}

// MonitorExam godoc
// WS /ws/v1/teacher/exams/:examId/monitor
// Upgrades to WebSocket, sends a snapshot of current submissions, then relays
// grading events for the exam as they are published.
func (h *MonitorHandler) MonitorExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	examID, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Verifies the exam exists and the requester authored it.
	submissions, err := h.submissionService.ListByExam(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotExamAuthor):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("teacher_id", claims.UserID).
		Str("exam_id", examID.String()).
		Logger()
	wsLog.Info().Msg("Teacher attached to grading monitor")

	if err := ws.Write(conn, ws.EventSnapshot, gin.H{"submissions": submissions}); err != nil {
		wsLog.Warn().Err(err).Msg("Snapshot write failed")
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain client frames so pings are answered and closes are noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	channelName := config.CacheKey.GradingChannel(examID.String())
	pubsub := h.rdb.Subscribe(ctx, channelName)
	defer pubsub.Close()

	events := pubsub.Channel()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Monitor detached")
			return

		case msg, ok := <-events:
			if !ok {
				return
			}
			var event service.GradingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed grading event")
				continue
			}
			if err := ws.Write(conn, ws.EventGraded, event); err != nil {
				wsLog.Debug().Err(err).Msg("Client write failed")
				return
			}

		case <-keepAlive.C:
			if err := ws.Write(conn, ws.EventPing, nil); err != nil {
				return
			}
		}
	}
}
