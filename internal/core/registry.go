package core

import (
	"strings"
	"sync"
)

// User is a joined chat participant. The connection id is the primary key;
// the username is unique only within its room. Users are immutable for the
// life of the connection.
type User struct {
	ID       string
	Username string
	Room     string
}

// Registry tracks all live users process-wide. One mutex guards every
// operation; each call is an atomic unit. Listing preserves insertion order.
type Registry struct {
	mu    sync.Mutex
	users map[string]User
	order []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]User),
	}
}

// AddUser validates and stores a new user. Both strings are trimmed first.
// Fails with validation_error when either is empty after trimming, and with
// name_taken when the (room, username) pair is already occupied. The
// duplicate check is case-sensitive: names differing only in case coexist.
func (r *Registry) AddUser(id, username, room string) (User, error) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" || room == "" {
		return User{}, coreError(ErrCodeValidation, "username and room are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, uid := range r.order {
		u := r.users[uid]
		if u.Room == room && u.Username == username {
			return User{}, coreError(ErrCodeNameTaken, "username is in use")
		}
	}

	user := User{ID: id, Username: username, Room: room}
	r.users[id] = user
	r.order = append(r.order, id)
	return user, nil
}

// RemoveUser removes and returns the user for the given connection id.
// Safe to call for ids that never joined; reports false in that case.
func (r *Registry) RemoveUser(id string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, false
	}

	delete(r.users, id)
	for i, uid := range r.order {
		if uid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return user, true
}

// GetUser looks up a user by connection id without mutating the registry.
func (r *Registry) GetUser(id string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	return user, ok
}

// UsersInRoom returns the room's users in insertion order. The result is a
// fresh slice; callers may hold it across registry mutations.
func (r *Registry) UsersInRoom(room string) []User {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, 0)
	for _, uid := range r.order {
		if u := r.users[uid]; u.Room == room {
			users = append(users, u)
		}
	}
	return users
}
