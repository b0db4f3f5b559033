// Package ws exposes the order chat over a websocket endpoint. Each
// connection gets its own dispatch session (and so its own cart) and, when
// an oracle is configured, its own conversation history.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chat2snack.ai/internal/dispatch"
	"chat2snack.ai/internal/menu"
	"chat2snack.ai/internal/oracle"
	"chat2snack.ai/internal/protocol"
)

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 5 * time.Minute
	writeTimeout     = 5 * time.Second
	oracleTimeout    = 2 * time.Minute
)

type Server struct {
	newSession func() *dispatch.Session
	oracle     *oracle.Client // nil when no model endpoint is configured
	log        *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(newSession func() *dispatch.Session, oc *oracle.Client, logger *log.Logger) *Server {
	return &Server{
		newSession: newSession,
		oracle:     oc,
		log:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if !s.handshake(conn) {
			return
		}

		session := s.newSession()
		var conv *oracle.Conversation
		if s.oracle != nil {
			conv = s.oracle.NewConversation()
		}

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.ProtocolVersion != protocol.Version {
				s.writeError(conn, protocol.ErrProtoBadRequest, "bad message envelope")
				continue
			}

			switch base.Type {
			case protocol.TypeChat:
				var chat protocol.ChatMsg
				if err := json.Unmarshal(msg, &chat); err != nil || chat.Text == "" {
					s.writeError(conn, protocol.ErrProtoBadRequest, "bad CHAT message")
					continue
				}
				s.handleChat(conn, session, conv, chat.Text)

			case protocol.TypeOrder:
				var order protocol.OrderMsg
				if err := json.Unmarshal(msg, &order); err != nil {
					s.writeError(conn, protocol.ErrProtoBadRequest, "bad ORDER message")
					continue
				}
				s.writeResult(conn, order.Commands, session.Process(r.Context(), order.Commands))

			default:
				s.writeError(conn, protocol.ErrProtoBadRequest, "unexpected message type")
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return false
	}
	if base.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"),
			time.Now().Add(time.Second))
		return false
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		Menu:            menuEntries(),
		MenuDigest:      menu.Digest(),
		MaxQty:          menu.MaxQty,
	}
	return s.write(conn, welcome)
}

func (s *Server) handleChat(conn *websocket.Conn, session *dispatch.Session, conv *oracle.Conversation, text string) {
	if conv == nil {
		s.writeError(conn, protocol.ErrOracleUnavailable, "no model endpoint configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), oracleTimeout)
	defer cancel()

	block, err := conv.Ask(ctx, text)
	if err != nil {
		if s.log != nil {
			s.log.Printf("oracle: %v", err)
		}
		s.writeError(conn, protocol.ErrOracleUnavailable, "model did not answer")
		return
	}
	s.writeResult(conn, block, session.Process(ctx, block))
}

func (s *Server) writeResult(conn *websocket.Conn, block string, res dispatch.Result) {
	feedback := res.Feedback
	if feedback == nil {
		feedback = []protocol.Feedback{}
	}
	cartLines := res.Cart
	if cartLines == nil {
		cartLines = []protocol.CartLine{}
	}
	s.write(conn, protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		Commands:        block,
		Feedback:        feedback,
		Cart:            cartLines,
		PreviewWord:     res.PreviewWord,
		PreviewBinary:   res.PreviewBinary,
		Dispensed:       res.Dispensed,
	})
}

func (s *Server) writeError(conn *websocket.Conn, code, message string) {
	s.write(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
}

func (s *Server) write(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(v); err != nil {
		if s.log != nil {
			s.log.Printf("ws write: %v", err)
		}
		return false
	}
	return true
}

func menuEntries() []protocol.MenuEntry {
	out := make([]protocol.MenuEntry, 0, len(menu.Palette))
	for _, it := range menu.Palette {
		out = append(out, protocol.MenuEntry{ID: string(it), Display: menu.DisplayName(it)})
	}
	return out
}
