package signaling

import "sync"

// Entry resolves a live connection back to its identity and room. This is the
// only place membership maps back to user identity.
type Entry struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	RoomID       string `json:"roomId"`
}

// Directory is the inverse index from connection id to identity, used for
// broadcast targeting and disconnect cleanup.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]Entry)}
}

// Register records the identity of a connection, overwriting any prior entry.
func (d *Directory) Register(e Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[e.ConnectionID] = e
}

// Lookup returns the entry for a connection id.
func (d *Directory) Lookup(connID string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[connID]
	return e, ok
}

// Remove forgets a connection. Idempotent.
func (d *Directory) Remove(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, connID)
}

// Len returns the number of tracked connections.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
