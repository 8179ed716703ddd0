package store

import (
	"encoding/binary"
	"fmt"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// Manager loads and saves the configuration record at a fixed address.
type Manager struct {
	store Store
	addr  int
}

// NewManager creates a Manager for the record at addr.
func NewManager(s Store, addr int) *Manager {
	return &Manager{store: s, addr: addr}
}

// Load returns the stored configuration. When the stored schema version does
// not match, the defaults are written and committed and returned with
// restored set.
func (m *Manager) Load() (cfg logic.Config, restored bool, err error) {
	tag, err := m.store.Get(m.addr, versionSize)
	if err != nil {
		return logic.Config{}, false, fmt.Errorf("read schema version: %w", err)
	}

	if binary.LittleEndian.Uint32(tag) != SchemaVersion {
		def := logic.DefaultConfig()
		if err := m.Save(def); err != nil {
			return def, true, fmt.Errorf("persist defaults: %w", err)
		}
		return def, true, nil
	}

	b, err := m.store.Get(m.addr, RecordSize)
	if err != nil {
		return logic.Config{}, false, fmt.Errorf("read record: %w", err)
	}
	cfg, err = Decode(b)
	if err != nil {
		return logic.Config{}, false, err
	}
	return cfg, false, nil
}

// Save writes cfg and commits.
func (m *Manager) Save(cfg logic.Config) error {
	if err := m.store.Put(m.addr, Encode(cfg)); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := m.store.Commit(); err != nil {
		return fmt.Errorf("commit record: %w", err)
	}
	return nil
}
