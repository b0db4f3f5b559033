package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	chatSchema := compile("chat.schema.json")
	orderSchema := compile("order.schema.json")
	resultSchema := compile("result.schema.json")
	errorSchema := compile("error.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"panel_1"
	}`), &hello)
	validate(helloSchema, hello)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "menu":[
	    {"id":"burger","display":"Burger"},
	    {"id":"fries","display":"Fries"},
	    {"id":"soda","display":"Soda"},
	    {"id":"ice_cream","display":"Ice Cream"},
	    {"id":"pizza","display":"Pizza"}
	  ],
	  "menu_digest":"deadbeef",
	  "max_qty":7
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var chat any
	_ = json.Unmarshal([]byte(`{
	  "type":"CHAT",
	  "protocol_version":"1.0",
	  "text":"two burgers and a soda please"
	}`), &chat)
	validate(chatSchema, chat)

	var order any
	_ = json.Unmarshal([]byte(`{
	  "type":"ORDER",
	  "protocol_version":"1.0",
	  "commands":"add burger 2\nadd soda 1\ndispense"
	}`), &order)
	validate(orderSchema, order)

	var result any
	_ = json.Unmarshal([]byte(`{
	  "type":"RESULT",
	  "protocol_version":"1.0",
	  "commands":"add burger 2\ndispense",
	  "feedback":[
	    {"severity":"INFO","message":"Added 2 burger(s)."},
	    {"severity":"INFO","message":"Order dispensed and cart cleared."}
	  ],
	  "cart":[],
	  "preview_word":0,
	  "preview_binary":"0000000000000000",
	  "dispensed":1
	}`), &result)
	validate(resultSchema, result)

	var errMsg any
	_ = json.Unmarshal([]byte(`{
	  "type":"ERROR",
	  "protocol_version":"1.0",
	  "code":"E_PROTO_BAD_REQUEST",
	  "message":"expected HELLO"
	}`), &errMsg)
	validate(errorSchema, errMsg)
}
