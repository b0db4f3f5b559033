package ws

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"chat2snack.ai/internal/dispatch"
	"chat2snack.ai/internal/protocol"
	"chat2snack.ai/internal/transport/serial"
)

func dialTestServer(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	newSession := func() *dispatch.Session {
		return dispatch.NewSession(dispatch.Config{Link: serial.NewSimulated(nil)})
	}
	srv := httptest.NewServer(NewServer(newSession, nil, nil).Handler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHandshakeAndOrder(t *testing.T) {
	conn, done := dialTestServer(t)
	defer done()

	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "test"}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("send HELLO: %v", err)
	}

	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read WELCOME: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome || welcome.MaxQty != 7 || len(welcome.Menu) != 5 {
		t.Fatalf("welcome = %+v", welcome)
	}

	order := protocol.OrderMsg{
		Type:            protocol.TypeOrder,
		ProtocolVersion: protocol.Version,
		Commands:        "add pizza 2\nadd soda 1\ndispense",
	}
	if err := conn.WriteJSON(order); err != nil {
		t.Fatalf("send ORDER: %v", err)
	}

	var res protocol.ResultMsg
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read RESULT: %v", err)
	}
	if res.Dispensed != 1 {
		t.Fatalf("dispensed = %d", res.Dispensed)
	}
	if len(res.Cart) != 0 {
		t.Fatalf("cart not cleared: %+v", res.Cart)
	}
	if res.PreviewBinary != "0000000000000000" {
		t.Fatalf("preview = %q", res.PreviewBinary)
	}
	if len(res.Feedback) != 3 {
		t.Fatalf("feedback = %+v", res.Feedback)
	}
}

func TestChatWithoutOracle(t *testing.T) {
	conn, done := dialTestServer(t)
	defer done()

	_ = conn.WriteJSON(protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version})
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read WELCOME: %v", err)
	}

	_ = conn.WriteJSON(protocol.ChatMsg{Type: protocol.TypeChat, ProtocolVersion: protocol.Version, Text: "a soda"})
	var errMsg protocol.ErrorMsg
	if err := conn.ReadJSON(&errMsg); err != nil {
		t.Fatalf("read ERROR: %v", err)
	}
	if errMsg.Code != protocol.ErrOracleUnavailable {
		t.Fatalf("code = %s", errMsg.Code)
	}
}

func TestSessionStateSpansMessages(t *testing.T) {
	conn, done := dialTestServer(t)
	defer done()

	_ = conn.WriteJSON(protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version})
	var welcome protocol.WelcomeMsg
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read WELCOME: %v", err)
	}

	send := func(commands string) protocol.ResultMsg {
		t.Helper()
		_ = conn.WriteJSON(protocol.OrderMsg{Type: protocol.TypeOrder, ProtocolVersion: protocol.Version, Commands: commands})
		var res protocol.ResultMsg
		if err := conn.ReadJSON(&res); err != nil {
			t.Fatalf("read RESULT: %v", err)
		}
		return res
	}

	send("add burger 2")
	res := send("add burger 1")
	if len(res.Cart) != 1 || res.Cart[0].Qty != 3 {
		t.Fatalf("cart did not accumulate: %+v", res.Cart)
	}
}

func TestRejectsWrongFirstMessage(t *testing.T) {
	conn, done := dialTestServer(t)
	defer done()

	_ = conn.WriteJSON(protocol.OrderMsg{Type: protocol.TypeOrder, ProtocolVersion: protocol.Version, Commands: "dispense"})
	// Server closes with a policy violation instead of answering.
	var any map[string]any
	if err := conn.ReadJSON(&any); err == nil {
		t.Fatalf("expected close, got %v", any)
	}
}
