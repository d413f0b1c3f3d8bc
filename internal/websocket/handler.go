package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/internal/pkg/serverutils"
	"devops-assistant-be/internal/repository/memory"
	"devops-assistant-be/pkg/agent/state"
	"devops-assistant-be/pkg/agent/workflow"
	"devops-assistant-be/pkg/analytics"
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler owns the chat socket. It authenticates the upgrade, keeps the
// rolling history for its session and runs one pipeline per inbound message,
// strictly in order: the next message is not read until the previous run has
// emitted its terminal frame.
type ChatHandler struct {
	runner    *workflow.Runner
	sessions  *memory.SessionRepository
	history   *store.HistoryStore
	publisher *analytics.Publisher
	jwtSecret string
	log       logger.ILogger
}

func NewChatHandler(
	runner *workflow.Runner,
	sessions *memory.SessionRepository,
	history *store.HistoryStore,
	publisher *analytics.Publisher,
	jwtSecret string,
	log logger.ILogger,
) *ChatHandler {
	return &ChatHandler{
		runner:    runner,
		sessions:  sessions,
		history:   history,
		publisher: publisher,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/chat", h.Upgrade)
}

func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(h.serve)(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ChatHandler) serve(conn *websocket.Conn) {
	defer conn.Close()

	claims, err := serverutils.ParseToken(h.jwtSecret, conn.Query("token"))
	if err != nil {
		_ = conn.WriteJSON(errorFrame{Type: frameTypeError, Error: "authentication required"})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"))
		return
	}

	sessionID := conn.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	user := state.User{Username: claims.Username, Role: claims.Role}

	h.sessions.Save(&store.Session{
		ID:        sessionID,
		Username:  user.Username,
		Role:      user.Role,
		StartedAt: time.Now(),
	})
	defer h.sessions.Delete(sessionID)

	ctx := context.Background()
	history, err := h.history.Load(ctx, sessionID)
	if err != nil {
		h.log.Warn("chat", "history load failed, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	_ = conn.WriteJSON(connectionFrame{
		Type:      frameTypeConnection,
		Status:    "connected",
		SessionID: sessionID,
		User:      user.Username,
	})
	_ = conn.WriteJSON(ChatResponse{
		Type:       frameTypeChatResponse,
		Answer:     greeting(user.Username),
		AgentSteps: []state.Step{},
	})

	h.log.Info("chat", "session opened", map[string]interface{}{
		"session_id": sessionID,
		"username":   user.Username,
	})

	for {
		mt, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("chat", "connection closed unexpectedly", map[string]interface{}{
					"session_id": sessionID,
					"error":      err.Error(),
				})
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		query := extractQuery(payload)
		if query == "" {
			continue
		}

		history = h.handleMessage(ctx, conn, sessionID, user, query, history)
	}
}

// handleMessage runs one pipeline instance and returns the history extended
// with this turn. On a workflow error the history is returned unchanged so a
// broken run never pollutes later context.
func (h *ChatHandler) handleMessage(
	ctx context.Context,
	conn *websocket.Conn,
	sessionID string,
	user state.User,
	query string,
	history []llm.Message,
) []llm.Message {
	st := state.New(query, sessionID, user, history)
	sink := &connSink{conn: conn, log: h.log}

	res := h.runner.Run(ctx, st, sink)

	resp := buildChatResponse(st, res)
	if err := conn.WriteJSON(resp); err != nil {
		h.log.Warn("chat", "terminal frame write failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	if session, ok := h.sessions.Get(sessionID); ok {
		session.MessageCount++
		session.LastQuery = query
		h.sessions.Save(session)
	}

	turn := historyTurn(query, st, res)
	if len(turn) == 0 {
		return history
	}
	history = append(history, turn...)
	if err := h.history.Append(ctx, sessionID, turn...); err != nil {
		h.log.Warn("chat", "history append failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	h.publisher.Publish(analytics.Record{
		Username:    user.Username,
		Question:    query,
		AgentSteps:  st.Steps,
		FinalAnswer: st.FinalAnswer,
		UsedMCP:     res.UsedTool,
		WebSources:  resp.WebSources,
		Timestamp:   time.Now(),
	})

	return history
}

// historyTurn is what one processed message contributes to the rolling chat
// history. A rejected query records the block message instead of an empty
// assistant line; error runs contribute nothing.
func historyTurn(query string, st *state.State, res workflow.Result) []llm.Message {
	if res.Outcome == workflow.OutcomeError {
		return nil
	}
	answer := st.FinalAnswer
	if res.Outcome == workflow.OutcomeRejected {
		answer = guardrailBlockedMessage
	}
	return []llm.Message{
		{Role: "user", Content: query},
		{Role: "assistant", Content: answer},
	}
}

// connSink forwards pipeline events to the client as agent_event frames.
// Write failures are logged and swallowed; the run itself must not fail on a
// slow or gone client.
type connSink struct {
	conn *websocket.Conn
	log  logger.ILogger
}

func (s *connSink) Emit(event workflow.Event) {
	frame := agentEventFrame{Type: frameTypeAgentEvent, Event: event}
	if err := s.conn.WriteJSON(frame); err != nil {
		s.log.Warn("chat", "event frame write failed", map[string]interface{}{
			"agent": event.Agent,
			"error": err.Error(),
		})
	}
}

// extractQuery accepts either a plain text query or a {"message": "..."}
// wrapper, which some clients send.
func extractQuery(payload []byte) string {
	text := strings.TrimSpace(string(payload))
	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil {
			if msg := strings.TrimSpace(wrapped.Message); msg != "" {
				return msg
			}
		}
	}
	return text
}

func greeting(username string) string {
	return fmt.Sprintf(
		"Hello %s! I'm your DevOps assistant. Ask me about deployments, infrastructure, CI/CD, or debugging an issue.",
		username,
	)
}
