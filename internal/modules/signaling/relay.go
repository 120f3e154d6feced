package signaling

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Emitter is the relay's outbound side. The hub implements it over socket.io;
// tests use a recording fake.
type Emitter interface {
	// To sends an event to a single connection. Unknown or empty ids are no-ops.
	To(connID, event string, payload interface{})
	// Broadcast sends an event to every member of a room except one connection.
	Broadcast(roomID, except, event string, payload interface{})
}

// Relay is the signaling state machine. Each handler receives the connection
// id and the decoded payload; all shared state lives in the injected registry
// and directory. Per-event failures become a single `error` emission to the
// offending connection and never touch other connections.
type Relay struct {
	// mu makes join and disconnect atomic with respect to each other, so a
	// concurrent disconnect can never observe a half-joined connection.
	mu sync.Mutex

	rooms  *RoomRegistry
	dir    *Directory
	emit   Emitter
	logger *zap.Logger
	clock  func() time.Time
}

// NewRelay wires the relay over its stores and emitter.
func NewRelay(rooms *RoomRegistry, dir *Directory, emit Emitter, logger *zap.Logger) *Relay {
	return &Relay{
		rooms:  rooms,
		dir:    dir,
		emit:   emit,
		logger: logger,
		clock:  time.Now,
	}
}

// HandleJoinRoom validates the request, registers membership and identity as
// one critical section, announces the joiner to the room and replies with the
// members already present.
func (r *Relay) HandleJoinRoom(connID string, p JoinRoomPayload) {
	if p.RoomID == "" || p.UserID == "" || p.UserName == "" {
		r.sendError(connID, ErrInvalidJoinRequest.Error())
		return
	}

	r.mu.Lock()
	existing, err := r.rooms.Join(p.RoomID, connID)
	if err != nil {
		r.mu.Unlock()
		r.logger.Warn("join rejected",
			zap.String("room", p.RoomID),
			zap.String("conn", connID),
			zap.String("reason", err.Error()),
		)
		r.sendError(connID, err.Error())
		return
	}
	r.dir.Register(Entry{
		ConnectionID: connID,
		UserID:       p.UserID,
		UserName:     p.UserName,
		RoomID:       p.RoomID,
	})
	r.mu.Unlock()

	r.emit.Broadcast(p.RoomID, connID, EventUserJoined, UserJoinedPayload{
		UserID:       p.UserID,
		UserName:     p.UserName,
		ConnectionID: connID,
	})

	existingEntries := make([]Entry, 0, len(existing))
	for _, id := range existing {
		if e, ok := r.dir.Lookup(id); ok {
			existingEntries = append(existingEntries, e)
		}
	}
	r.emit.To(connID, EventExistingUsers, existingEntries)

	r.logger.Info("user joined room",
		zap.String("room", p.RoomID),
		zap.String("user", p.UserName),
		zap.String("conn", connID),
	)
}

// HandleOffer forwards an SDP offer to its target connection.
func (r *Relay) HandleOffer(connID string, p OfferPayload) {
	r.emit.To(p.Target, EventOffer, OfferForward{Offer: p.Offer, Sender: connID})
}

// HandleAnswer forwards an SDP answer to its target connection.
func (r *Relay) HandleAnswer(connID string, p AnswerPayload) {
	r.emit.To(p.Target, EventAnswer, AnswerForward{Answer: p.Answer, Sender: connID})
}

// HandleICECandidate forwards an ICE candidate to its target connection.
func (r *Relay) HandleICECandidate(connID string, p ICECandidatePayload) {
	r.emit.To(p.Target, EventICECandidate, ICECandidateForward{Candidate: p.Candidate, Sender: connID})
}

// HandleChatMessage resolves the sender's identity and rebroadcasts the
// message to the rest of the room with a server-assigned timestamp.
func (r *Relay) HandleChatMessage(connID string, p ChatMessagePayload) {
	if !r.rooms.Has(p.RoomID) {
		r.sendError(connID, ErrRoomNotFound.Error())
		return
	}
	sender, ok := r.dir.Lookup(connID)
	if !ok {
		r.sendError(connID, ErrUserNotFound.Error())
		return
	}

	r.emit.Broadcast(p.RoomID, connID, EventChatMessage, ChatMessageBroadcast{
		Message:   p.Message,
		Sender:    sender.UserName,
		Encrypted: p.Encrypted,
		Timestamp: r.timestamp(),
	})
}

// HandleFileTransfer forwards an opaque file blob, unicast when a target is
// given, otherwise to the whole room minus the sender. The relay never
// inspects the blob.
func (r *Relay) HandleFileTransfer(connID string, p FileTransferPayload) {
	if !r.rooms.Has(p.RoomID) {
		r.sendError(connID, ErrRoomNotFound.Error())
		return
	}
	sender, ok := r.dir.Lookup(connID)
	if !ok {
		r.sendError(connID, ErrUserNotFound.Error())
		return
	}

	forward := FileTransferForward{
		FileData:  p.FileData,
		FileInfo:  p.FileInfo,
		FileName:  p.FileName,
		FileType:  p.FileType,
		FileSize:  p.FileSize,
		Encrypted: p.Encrypted,
		Sender:    sender.UserName,
		Timestamp: r.timestamp(),
	}
	if p.Target != "" {
		r.emit.To(p.Target, EventFileTransfer, forward)
		return
	}
	r.emit.Broadcast(p.RoomID, connID, EventFileTransfer, forward)
}

// HandlePublicKey forwards a key-exchange public key, unicast or room-wide.
func (r *Relay) HandlePublicKey(connID string, p PublicKeyPayload) {
	if !r.rooms.Has(p.RoomID) {
		r.sendError(connID, ErrRoomNotFound.Error())
		return
	}

	forward := PublicKeyForward{PublicKey: p.PublicKey, Sender: connID}
	if p.Target != "" {
		r.emit.To(p.Target, EventPublicKey, forward)
		return
	}
	r.emit.Broadcast(p.RoomID, connID, EventPublicKey, forward)
}

// HandleSessionKey forwards an encrypted session key. The exchange is
// inherently point-to-point, so a target is mandatory.
func (r *Relay) HandleSessionKey(connID string, p SessionKeyPayload) {
	if p.Target == "" {
		r.sendError(connID, ErrTargetRequired.Error())
		return
	}
	r.emit.To(p.Target, EventEncryptedSessionKey, SessionKeyForward{
		EncryptedSessionKey: p.EncryptedSessionKey,
		Sender:              connID,
	})
}

// HandleStartScreenShare announces a share to the sender's room. Advisory
// only; the relay keeps no record of who is sharing.
func (r *Relay) HandleStartScreenShare(connID string) {
	sender, ok := r.dir.Lookup(connID)
	if !ok {
		return
	}
	r.emit.Broadcast(sender.RoomID, connID, EventScreenShareStarted, ScreenShareStartedPayload{
		Sender:   connID,
		UserName: sender.UserName,
	})
}

// HandleStopScreenShare announces the end of a share to the sender's room.
func (r *Relay) HandleStopScreenShare(connID string) {
	sender, ok := r.dir.Lookup(connID)
	if !ok {
		return
	}
	r.emit.Broadcast(sender.RoomID, connID, EventScreenShareStopped, ScreenShareStoppedPayload{
		Sender: connID,
	})
}

// HandleDisconnect tears down whatever state the connection left behind.
// A connection that never joined a room disconnects without any emission.
func (r *Relay) HandleDisconnect(connID string) {
	r.mu.Lock()
	entry, ok := r.dir.Lookup(connID)
	if !ok {
		r.rooms.ClearAttempts(connID)
		r.mu.Unlock()
		return
	}
	r.rooms.Leave(entry.RoomID, connID)
	r.rooms.ClearAttempts(connID)
	r.dir.Remove(connID)
	r.mu.Unlock()

	r.emit.Broadcast(entry.RoomID, connID, EventUserLeft, UserLeftPayload{
		ConnectionID: connID,
		UserName:     entry.UserName,
	})

	r.logger.Info("user left room",
		zap.String("room", entry.RoomID),
		zap.String("user", entry.UserName),
		zap.String("conn", connID),
	)
}

// HandleMalformed notifies a connection that its event payload was rejected.
func (r *Relay) HandleMalformed(connID string) {
	r.sendError(connID, ErrInvalidRequest.Error())
}

func (r *Relay) sendError(connID, message string) {
	r.emit.To(connID, EventError, ErrorPayload{Message: message})
}

func (r *Relay) timestamp() string {
	return r.clock().UTC().Format(time.RFC3339Nano)
}
