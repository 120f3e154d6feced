package signaling

import "sync"

// RoomRegistry maps room ids to member sets of connection ids. Rooms are
// created on first join and deleted as soon as the last member leaves. It also
// tracks the per-connection join-attempt counter, which caps how often a
// single connection may ask to join anything, independent of room capacity.
type RoomRegistry struct {
	mu          sync.RWMutex
	rooms       map[string]map[string]struct{}
	attempts    map[string]int
	capacity    int
	maxAttempts int
}

// NewRoomRegistry creates an empty registry with the given room capacity and
// per-connection join-attempt cap.
func NewRoomRegistry(capacity, maxAttempts int) *RoomRegistry {
	return &RoomRegistry{
		rooms:       make(map[string]map[string]struct{}),
		attempts:    make(map[string]int),
		capacity:    capacity,
		maxAttempts: maxAttempts,
	}
}

// Join adds connID to the room and returns the members present before the
// join (so the joiner sees everyone but itself). Every call consumes one join
// attempt, accepted or not; a call is rejected once the connection's prior
// attempts exceed the cap.
func (r *RoomRegistry) Join(roomID, connID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.attempts[connID] > r.maxAttempts {
		return nil, ErrTooManyJoinAttempts
	}
	r.attempts[connID]++

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[roomID] = members
	}

	if _, present := members[connID]; !present && len(members) >= r.capacity {
		return nil, ErrRoomFull
	}

	existing := make([]string, 0, len(members))
	for id := range members {
		if id != connID {
			existing = append(existing, id)
		}
	}
	members[connID] = struct{}{}
	return existing, nil
}

// Leave removes connID from the room, deleting the room if it becomes empty.
// Idempotent when the room or the membership is absent.
func (r *RoomRegistry) Leave(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// Members returns a snapshot of the room's member set and whether it exists.
func (r *RoomRegistry) Members(roomID string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out, true
}

// Has reports whether the room currently exists.
func (r *RoomRegistry) Has(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}

// ClearAttempts forgets the join counter of a closed connection.
func (r *RoomRegistry) ClearAttempts(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, connID)
}

// RoomCount returns the number of live rooms.
func (r *RoomRegistry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
