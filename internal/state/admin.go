package state

import (
	"slices"
	"sync"

	"github.com/target/appconsole/internal/domain/model"
)

// Admin is the admin slice: the user listing shown in admin views, unique by ID.
type Admin struct {
	mu    sync.RWMutex
	users []model.UserProfile
}

// NewAdmin returns an empty admin slice.
func NewAdmin() *Admin {
	return &Admin{}
}

// SetUsers replaces the whole listing. Later duplicates of an ID win.
func (a *Admin) SetUsers(users []model.UserProfile) {
	deduped := make([]model.UserProfile, 0, len(users))
	index := make(map[int]int, len(users))
	for _, u := range users {
		if i, ok := index[u.ID]; ok {
			deduped[i] = u
			continue
		}
		index[u.ID] = len(deduped)
		deduped = append(deduped, u)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = deduped
}

// SetUser replaces the user with the same ID, or appends it.
func (a *Admin) SetUser(user model.UserProfile) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i := slices.IndexFunc(a.users, func(u model.UserProfile) bool { return u.ID == user.ID }); i >= 0 {
		a.users[i] = user
		return
	}
	a.users = append(a.users, user)
}

// Users returns a copy of the listing.
func (a *Admin) Users() []model.UserProfile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.users)
}

// User returns the listed user with the given ID.
func (a *Admin) User(id int) (model.UserProfile, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, u := range a.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.UserProfile{}, false
}

// Reset clears the listing.
func (a *Admin) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = nil
}
