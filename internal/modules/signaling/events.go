package signaling

import "encoding/json"

// Client-emitted events.
const (
	EventJoinRoom            = "join-room"
	EventOffer               = "offer"
	EventAnswer              = "answer"
	EventICECandidate        = "ice-candidate"
	EventChatMessage         = "chat-message"
	EventFileTransfer        = "file-transfer"
	EventStartScreenShare    = "start-screen-share"
	EventStopScreenShare     = "stop-screen-share"
	EventPublicKey           = "public-key"
	EventEncryptedSessionKey = "encrypted-session-key"
)

// Server-emitted events.
const (
	EventUserJoined         = "user-joined"
	EventExistingUsers      = "existing-users"
	EventUserLeft           = "user-left"
	EventError              = "error"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
)

// Inbound payloads, one variant per event. Fields the relay never interprets
// (SDP, candidates, ciphertext, file blobs) stay as interface{} and are
// forwarded untouched.

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type OfferPayload struct {
	Target string      `json:"target"`
	Offer  interface{} `json:"offer"`
}

type AnswerPayload struct {
	Target string      `json:"target"`
	Answer interface{} `json:"answer"`
}

type ICECandidatePayload struct {
	Target    string      `json:"target"`
	Candidate interface{} `json:"candidate"`
}

type ChatMessagePayload struct {
	RoomID    string      `json:"roomId"`
	Message   interface{} `json:"message"`
	Encrypted bool        `json:"encrypted"`
}

type FileTransferPayload struct {
	RoomID    string      `json:"roomId"`
	Target    string      `json:"target"`
	FileData  interface{} `json:"fileData"`
	FileInfo  interface{} `json:"fileInfo"`
	FileName  string      `json:"fileName"`
	FileType  string      `json:"fileType"`
	FileSize  interface{} `json:"fileSize"`
	Encrypted bool        `json:"encrypted"`
}

type PublicKeyPayload struct {
	RoomID    string      `json:"roomId"`
	Target    string      `json:"target"`
	PublicKey interface{} `json:"publicKey"`
}

type SessionKeyPayload struct {
	Target              string      `json:"target"`
	EncryptedSessionKey interface{} `json:"encryptedSessionKey"`
}

// Outbound payloads.

type UserJoinedPayload struct {
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	ConnectionID string `json:"connectionId"`
}

type UserLeftPayload struct {
	ConnectionID string `json:"connectionId"`
	UserName     string `json:"userName"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type OfferForward struct {
	Offer  interface{} `json:"offer"`
	Sender string      `json:"sender"`
}

type AnswerForward struct {
	Answer interface{} `json:"answer"`
	Sender string      `json:"sender"`
}

type ICECandidateForward struct {
	Candidate interface{} `json:"candidate"`
	Sender    string      `json:"sender"`
}

type ChatMessageBroadcast struct {
	Message   interface{} `json:"message"`
	Sender    string      `json:"sender"`
	Encrypted bool        `json:"encrypted"`
	Timestamp string      `json:"timestamp"`
}

type FileTransferForward struct {
	FileData  interface{} `json:"fileData"`
	FileInfo  interface{} `json:"fileInfo"`
	FileName  string      `json:"fileName"`
	FileType  string      `json:"fileType"`
	FileSize  interface{} `json:"fileSize"`
	Encrypted bool        `json:"encrypted"`
	Sender    string      `json:"sender"`
	Timestamp string      `json:"timestamp"`
}

type PublicKeyForward struct {
	PublicKey interface{} `json:"publicKey"`
	Sender    string      `json:"sender"`
}

type SessionKeyForward struct {
	EncryptedSessionKey interface{} `json:"encryptedSessionKey"`
	Sender              string      `json:"sender"`
}

type ScreenShareStartedPayload struct {
	Sender   string `json:"sender"`
	UserName string `json:"userName"`
}

type ScreenShareStoppedPayload struct {
	Sender string `json:"sender"`
}

// decodeInto converts a raw socket.io event argument into the typed payload
// for its event. Anything that does not match the expected shape is rejected
// at this boundary.
func decodeInto(raw interface{}, dst interface{}) bool {
	if raw == nil {
		return false
	}
	var data []byte
	switch typed := raw.(type) {
	case string:
		data = []byte(typed)
	case []byte:
		data = typed
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return false
		}
		data = encoded
	}
	return json.Unmarshal(data, dst) == nil
}
