package state

// Store composes the state slices into the single container consumed by the UI and CLI.
// One Store exists per running console.
type Store struct {
	Main  *Main
	Admin *Admin
}

// NewStore creates a Store with default slices.
func NewStore() *Store {
	return &Store{
		Main:  NewMain(),
		Admin: NewAdmin(),
	}
}
