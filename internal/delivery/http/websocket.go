package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/caloriefinder/backend/internal/usecase"
	ws "github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

const (
	wsSendBufferSize = 16
	wsPingInterval   = 30 * time.Second
	wsReadLimit      = 4096
)

// wsRequest is a search submitted over the live connection
type wsRequest struct {
	ID    uint64 `json:"id"`
	Query string `json:"query"`
}

// wsMessage answers the latest request; ID echoes the request's ID
type wsMessage struct {
	Type    string          `json:"type"` // "result" or "error"
	ID      uint64          `json:"id"`
	Result  *searchResponse `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
}

// LiveSearch upgrades to a WebSocket and runs a search session on it.
// Each new query supersedes the previous one; outcomes of superseded
// queries are never sent.
func (h *Handler) LiveSearch(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	// gin refuses to hijack once WriteHeaderNow has flushed the 101, so Accept
	// gets a writer without it and gin only records the status.
	w := struct {
		http.ResponseWriter
		http.Hijacker
	}{c.Writer, c.Writer}

	conn, err := ws.Accept(w, c.Request, &ws.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		log.Printf("[WS] accept: %v", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(wsReadLimit)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	session := h.searchService.NewSession()
	defer session.Close()

	send := make(chan wsMessage, wsSendBufferSize)
	go wsWritePump(ctx, conn, send)

	var generation atomic.Uint64
	deliver := func(gen uint64, msg wsMessage) {
		if generation.Load() != gen {
			return
		}
		select {
		case send <- msg:
		case <-ctx.Done():
		}
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		gen := generation.Add(1)

		var req wsRequest
		if err := json.Unmarshal(data, &req); err != nil {
			session.Close()
			deliver(gen, wsMessage{Type: "error", ID: req.ID, Message: "invalid request"})
			continue
		}

		id := req.ID
		session.Execute(ctx, req.Query, usecase.Callbacks{
			OnSuccess: func(result *domain.SearchResult) {
				resp := newSearchResponse(result)
				deliver(gen, wsMessage{Type: "result", ID: id, Result: &resp})
			},
			OnFailure: func(err error) {
				if errors.Is(err, domain.ErrSuperseded) {
					return
				}
				deliver(gen, wsMessage{Type: "error", ID: id, Message: err.Error()})
			},
		})
	}
}

// wsWritePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func wsWritePump(ctx context.Context, conn *ws.Conn, send <-chan wsMessage) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-send:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("[WS] marshal: %v", err)
				continue
			}
			if err := conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// wsOriginPatterns converts CORS origins such as http://localhost:* into the
// host patterns coder/websocket matches against
func wsOriginPatterns(allowedOrigins []string) []string {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if _, host, ok := strings.Cut(origin, "://"); ok {
			origin = host
		}
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}
