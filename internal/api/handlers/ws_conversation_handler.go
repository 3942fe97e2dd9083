package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/conversations"
	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/models"
	"github.com/chimgan/sales/internal/services"
	"github.com/chimgan/sales/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

// WsConversationHandler runs one conversation engine per websocket connection.
type WsConversationHandler struct {
	feed        conversations.Feed
	writer      conversations.Writer
	userService services.IUserService
	upgrader    websocket.Upgrader
}

func NewWsConversationHandler(feed conversations.Feed, writer conversations.Writer, userService services.IUserService, allowedOrigins []string) *WsConversationHandler {
	allowAll := false
	allowed := map[string]bool{}
	for _, o := range allowedOrigins {
		allowed[o] = true
		allowAll = allowAll || o == "*"
	}
	return &WsConversationHandler{
		feed:        feed,
		writer:      writer,
		userService: userService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// wsCommand is what the client sends.
type wsCommand struct {
	Type string `json:"type"` // select, send, hide
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// wsEvent is what the server sends.
type wsEvent struct {
	Type    string               `json:"type"` // state, sent, error
	State   *conversations.State `json:"state,omitempty"`
	Message *models.Message      `json:"message,omitempty"`
	Code    apperr.Code          `json:"code,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type wsSession struct {
	id     string
	conn   *websocket.Conn
	engine *conversations.Engine
	lang   i18n.Language
	states chan conversations.State // holds only the latest state
	events chan wsEvent
}

// ServeWs handles GET /v1/ws/conversations?token=
func (h *WsConversationHandler) ServeWs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	lang := requestLanguage(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for %s: %v", userID, err)
		return
	}

	s := &wsSession{
		id:     uuid.NewString(),
		conn:   conn,
		lang:   lang,
		states: make(chan conversations.State, 1),
		events: make(chan wsEvent, 16),
	}
	s.engine = conversations.New(h.feed, h.writer, conversations.Options{
		UserID:   userID,
		UserName: user.PublicName(),
		OnChange: s.pushState,
	})
	log.Printf("conversation session %s opened for %s", s.id, userID)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := s.engine.Run(ctx); err != nil {
			log.Printf("conversation session %s engine stopped: %v", s.id, err)
		}
	}()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(ctx)
	}()

	s.readPump(ctx)
	cancel()
	<-s.engine.Done()
	<-writerDone
	conn.Close()
	log.Printf("conversation session %s closed", s.id)
}

// pushState runs on the engine goroutine. It never blocks: an unsent state is
// replaced by the newer one.
func (s *wsSession) pushState(st conversations.State) {
	for {
		select {
		case s.states <- st:
			return
		default:
			select {
			case <-s.states:
			default:
			}
		}
	}
}

func (s *wsSession) reply(ev wsEvent) {
	select {
	case s.events <- ev:
	default:
		log.Printf("conversation session %s: dropping %s event, client too slow", s.id, ev.Type)
	}
}

func (s *wsSession) replyError(err error) {
	code := apperr.CodeOf(err)
	if httpStatus(code) == http.StatusInternalServerError {
		log.Printf("conversation session %s: %v", s.id, err)
		code = apperr.CodeInternal
	}
	s.reply(wsEvent{Type: "error", Code: code, Error: i18n.ErrorMessage(s.lang, err)})
}

// readPump decodes client commands until the connection fails or closes.
func (s *wsSession) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("conversation session %s read error: %v", s.id, err)
			}
			return
		}
		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.replyError(apperr.InvalidArg("malformed command"))
			continue
		}
		s.handle(ctx, cmd)
	}
}

func (s *wsSession) handle(ctx context.Context, cmd wsCommand) {
	switch cmd.Type {
	case "select":
		id, err := utils.ParseSixID(cmd.ID)
		if err != nil {
			s.replyError(apperr.InvalidArg("invalid conversation id"))
			return
		}
		if err := s.engine.Select(ctx, id); err != nil {
			s.replyError(err)
		}
	case "send":
		msg, err := s.engine.Send(ctx, cmd.Text)
		if err != nil {
			s.replyError(err)
			return
		}
		s.reply(wsEvent{Type: "sent", Message: msg})
	case "hide":
		id, err := utils.ParseSixID(cmd.ID)
		if err != nil {
			s.replyError(apperr.InvalidArg("invalid conversation id"))
			return
		}
		if err := s.engine.Hide(ctx, id); err != nil {
			s.replyError(err)
		}
	default:
		s.replyError(apperr.InvalidArg("unknown command"))
	}
}

// writePump sends states, replies and pings until ctx is done or a write fails.
func (s *wsSession) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var ev wsEvent
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case st := <-s.states:
			ev = wsEvent{Type: "state", State: &st}
		case ev = <-s.events:
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
			continue
		}

		s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(ev); err != nil {
			log.Printf("conversation session %s write error: %v", s.id, err)
			// unblocks readPump
			s.conn.Close()
			return
		}
	}
}
