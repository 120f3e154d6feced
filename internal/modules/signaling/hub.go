package signaling

import (
	"net/http"
	"strings"
	"sync"

	socketio "github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"
)

// TokenVerifier reports whether a handshake token is acceptable. The relay's
// trust model is the token's cryptographic validity; it deliberately does not
// require a live session entry the way the HTTP layer does.
type TokenVerifier func(token string) bool

// Hub owns the socket.io server and adapts it to the relay: it authenticates
// handshakes, decodes event payloads into their typed variants, and implements
// Emitter over the live socket map.
type Hub struct {
	mu      sync.RWMutex
	sockets map[string]*socketio.Socket

	sio    *socketio.Server
	rooms  *RoomRegistry
	relay  *Relay
	dir    *Directory
	verify TokenVerifier
	logger *zap.Logger
}

// NewHub builds the hub and its relay over fresh registry/directory state.
func NewHub(capacity, maxJoinAttempts int, verify TokenVerifier, logger *zap.Logger) *Hub {
	sio := socketio.NewServer(nil, nil)
	h := &Hub{
		sockets: make(map[string]*socketio.Socket),
		sio:     sio,
		rooms:   NewRoomRegistry(capacity, maxJoinAttempts),
		dir:     NewDirectory(),
		verify:  verify,
		logger:  logger,
	}
	h.relay = NewRelay(h.rooms, h.dir, h, logger)
	h.registerHandlers()
	return h
}

// Relay exposes the state machine, mainly for stats and tests.
func (h *Hub) Relay() *Relay { return h.relay }

// Rooms exposes the room registry.
func (h *Hub) Rooms() *RoomRegistry { return h.rooms }

// Directory exposes the connection directory.
func (h *Hub) Directory() *Directory { return h.dir }

// ConnectionCount returns the number of authenticated live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sockets)
}

// Handler returns the socket.io HTTP handler mounted at /socket.io.
func (h *Hub) Handler() http.Handler {
	return h.sio.ServeHandler(nil)
}

// Close disconnects every client and stops the socket.io server.
func (h *Hub) Close() {
	h.sio.Close(nil)
}

// To implements Emitter for a single connection.
func (h *Hub) To(connID, event string, payload interface{}) {
	if connID == "" {
		return
	}
	h.mu.RLock()
	client := h.sockets[connID]
	h.mu.RUnlock()
	if client != nil {
		_ = client.Emit(event, payload)
	}
}

// Broadcast implements Emitter for a room, excluding one connection.
func (h *Hub) Broadcast(roomID, except, event string, payload interface{}) {
	members, ok := h.rooms.Members(roomID)
	if !ok {
		return
	}
	for _, id := range members {
		if id != except {
			h.To(id, event, payload)
		}
	}
}

func (h *Hub) registerHandlers() {
	ns := h.sio.Of("/", nil)
	_ = ns.On("connection", func(args ...any) {
		client, ok := args[0].(*socketio.Socket)
		if !ok {
			return
		}

		token := handshakeToken(client)
		if token == "" {
			_ = client.Emit(EventError, ErrorPayload{Message: "Authentication required"})
			client.Disconnect(true)
			return
		}
		if !h.verify(token) {
			_ = client.Emit(EventError, ErrorPayload{Message: "Invalid token"})
			client.Disconnect(true)
			return
		}

		sid := string(client.Id())
		h.mu.Lock()
		h.sockets[sid] = client
		h.mu.Unlock()
		h.logger.Info("signaling connection established", zap.String("conn", sid))

		_ = client.On(EventJoinRoom, func(eventArgs ...any) {
			var p JoinRoomPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleJoinRoom(sid, p)
		})

		_ = client.On(EventOffer, func(eventArgs ...any) {
			var p OfferPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleOffer(sid, p)
		})

		_ = client.On(EventAnswer, func(eventArgs ...any) {
			var p AnswerPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleAnswer(sid, p)
		})

		_ = client.On(EventICECandidate, func(eventArgs ...any) {
			var p ICECandidatePayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleICECandidate(sid, p)
		})

		_ = client.On(EventChatMessage, func(eventArgs ...any) {
			var p ChatMessagePayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleChatMessage(sid, p)
		})

		_ = client.On(EventFileTransfer, func(eventArgs ...any) {
			var p FileTransferPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleFileTransfer(sid, p)
		})

		_ = client.On(EventPublicKey, func(eventArgs ...any) {
			var p PublicKeyPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandlePublicKey(sid, p)
		})

		_ = client.On(EventEncryptedSessionKey, func(eventArgs ...any) {
			var p SessionKeyPayload
			if !decodeInto(firstArg(eventArgs), &p) {
				h.relay.HandleMalformed(sid)
				return
			}
			h.relay.HandleSessionKey(sid, p)
		})

		_ = client.On(EventStartScreenShare, func(...any) {
			h.relay.HandleStartScreenShare(sid)
		})

		_ = client.On(EventStopScreenShare, func(...any) {
			h.relay.HandleStopScreenShare(sid)
		})

		_ = client.On("disconnect", func(...any) {
			h.mu.Lock()
			delete(h.sockets, sid)
			h.mu.Unlock()
			h.relay.HandleDisconnect(sid)
			h.logger.Info("signaling connection closed", zap.String("conn", sid))
		})
	})
}

func firstArg(args []any) interface{} {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func handshakeToken(client *socketio.Socket) string {
	handshake := client.Handshake()
	if handshake == nil {
		return ""
	}
	return tokenFromHandshake(handshake.Auth, handshake.Query, handshake.Headers)
}

// tokenFromHandshake resolves the credential the client attached to the
// handshake: the socket.io auth payload first, then the query string, then
// the Authorization header.
func tokenFromHandshake(auth any, query, headers map[string][]string) string {
	if m, ok := auth.(map[string]interface{}); ok {
		if raw, ok := m["token"].(string); ok {
			if token := normalizeToken(raw); token != "" {
				return token
			}
		}
	}
	if token := firstValueFromMultiMap(query, "token"); token != "" {
		return normalizeToken(token)
	}
	if token := firstValueFromMultiMap(headers, "authorization"); token != "" {
		return normalizeToken(token)
	}
	return ""
}

func firstValueFromMultiMap(values map[string][]string, key string) string {
	if len(values) == 0 {
		return ""
	}
	for k, list := range values {
		if !strings.EqualFold(strings.TrimSpace(k), key) || len(list) == 0 {
			continue
		}
		v := strings.TrimSpace(list[0])
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
