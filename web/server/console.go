package server

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/lumen-render/lumen/pkg/core"
)

// ConsoleMessage is a render log line relayed to the viewer
type ConsoleMessage struct {
	Type    string `json:"type"` // "console"
	Message string `json:"message"`
}

// WebLogger implements core.Logger by relaying render log lines to the
// connection's writer goroutine. Sends are non-blocking; a slow client
// drops console lines rather than stalling the render.
type WebLogger struct {
	messages chan<- outboundMessage
}

// NewWebLogger creates a logger that mirrors render output to the client
func NewWebLogger(messages chan<- outboundMessage) core.Logger {
	return &WebLogger{messages: messages}
}

// Printf implements the core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	// Keep a copy in the server log
	log.Print(line)

	data, err := json.Marshal(ConsoleMessage{Type: "console", Message: line})
	if err != nil {
		return
	}
	select {
	case wl.messages <- outboundMessage{messageType: websocket.TextMessage, data: data}:
	default:
	}
}
