package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type cbContext struct {
	tele.Context

	cb *tele.Callback
}

func (c *cbContext) Callback() *tele.Callback { return c.cb }

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name        string
		cb          *tele.Callback
		wantKey     string
		wantPayload string
	}{
		{
			name:        "unique with payload",
			cb:          &tele.Callback{Data: "\\fconfirm_delete|42"},
			wantKey:     "confirm_delete",
			wantPayload: "42",
		},
		{
			name:    "unique only",
			cb:      &tele.Callback{Data: "\\fcancel_flow"},
			wantKey: "cancel_flow",
		},
		{
			name:    "no prefix",
			cb:      &tele.Callback{Data: "cancel_flow"},
			wantKey: "cancel_flow",
		},
		{
			name: "nil callback",
			cb:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tt.cb)
			if key != tt.wantKey || payload != tt.wantPayload {
				t.Fatalf("got (%q, %q), expected (%q, %q)", key, payload, tt.wantKey, tt.wantPayload)
			}
		})
	}
}

func TestCallbackKeyPrefersUnique(t *testing.T) {
	c := &cbContext{cb: &tele.Callback{Unique: "confirm_delete", Data: "\\fother|x"}}
	if key := CallbackKey(c); key != "confirm_delete" {
		t.Fatalf("key = %q, expected confirm_delete", key)
	}
}

func TestCallbackKeyFallsBackToData(t *testing.T) {
	c := &cbContext{cb: &tele.Callback{Data: "\\fcancel_flow|"}}
	if key := CallbackKey(c); key != "cancel_flow" {
		t.Fatalf("key = %q, expected cancel_flow", key)
	}
}

func TestCallbackKeyNoCallback(t *testing.T) {
	if key := CallbackKey(&cbContext{}); key != "" {
		t.Fatalf("key = %q, expected empty", key)
	}
}

func TestCallbackPayload(t *testing.T) {
	c := &cbContext{cb: &tele.Callback{Unique: "confirm_delete", Data: "\\fconfirm_delete|42"}}
	if payload := CallbackPayload(c); payload != "42" {
		t.Fatalf("payload = %q, expected 42", payload)
	}
}
