package store

// MemStore is an in-memory Store for tests.
type MemStore struct {
	img image

	// Commits counts successful Commit calls.
	Commits int

	// PutError and CommitError, if set, are returned by Put and Commit.
	PutError    error
	CommitError error
}

// NewMemStore creates an erased MemStore of size bytes.
func NewMemStore(size int) *MemStore {
	if size <= 0 {
		size = DefaultSize
	}
	return &MemStore{img: newImage(size)}
}

// Get returns a copy of size bytes at addr.
func (m *MemStore) Get(addr, size int) ([]byte, error) {
	return m.img.get(addr, size)
}

// Put writes data at addr.
func (m *MemStore) Put(addr int, data []byte) error {
	if m.PutError != nil {
		return m.PutError
	}
	return m.img.put(addr, data)
}

// Commit counts the call.
func (m *MemStore) Commit() error {
	if m.CommitError != nil {
		return m.CommitError
	}
	m.Commits++
	return nil
}

// Bytes returns the raw image.
func (m *MemStore) Bytes() []byte {
	return m.img
}
