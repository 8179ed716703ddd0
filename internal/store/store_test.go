package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

func TestEncodeDecode(t *testing.T) {
	cfg := logic.Config{PreheatTarget: 150, ReflowTarget: 245}

	b := Encode(cfg)
	if len(b) != RecordSize {
		t.Fatalf("record size: got %d, want %d", len(b), RecordSize)
	}
	if !bytes.Equal(b[:4], []byte{1, 0, 0, 0}) {
		t.Errorf("version tag: got %v, want [1 0 0 0]", b[:4])
	}

	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := Decode([]byte{1, 0, 0}); err == nil {
		t.Error("short record: expected error")
	}

	b := Encode(logic.DefaultConfig())
	b[0] = 2
	if _, err := Decode(b); err == nil {
		t.Error("foreign version: expected error")
	}
}

func TestManagerFirstBootPersistsDefaults(t *testing.T) {
	s := NewMemStore(DefaultSize)
	m := NewManager(s, 0)

	cfg, restored, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !restored {
		t.Error("first load should restore defaults")
	}
	if cfg != logic.DefaultConfig() {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if s.Commits != 1 {
		t.Errorf("commits: got %d, want 1", s.Commits)
	}
	if !bytes.Equal(s.Bytes()[:RecordSize], Encode(logic.DefaultConfig())) {
		t.Errorf("stored bytes: got %v", s.Bytes()[:RecordSize])
	}

	cfg, restored, err = m.Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if restored {
		t.Error("second load should find the stored record")
	}
	if cfg != logic.DefaultConfig() {
		t.Errorf("second load: got %+v, want defaults", cfg)
	}
	if s.Commits != 1 {
		t.Errorf("second load must not write, commits %d", s.Commits)
	}
}

func TestManagerRoundTrip(t *testing.T) {
	s := NewMemStore(DefaultSize)
	m := NewManager(s, 32)

	want := logic.Config{PreheatTarget: 123, ReflowTarget: 234}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, restored, err := NewManager(s, 32).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored {
		t.Error("saved record should load as-is")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

// staleTag always reports an erased version tag.
type staleTag struct {
	*MemStore
}

func (s staleTag) Get(addr, size int) ([]byte, error) {
	b, err := s.MemStore.Get(addr, size)
	if err == nil && len(b) >= versionSize {
		b[0], b[1], b[2], b[3] = erased, erased, erased, erased
	}
	return b, err
}

func TestManagerMismatchAlwaysYieldsDefaults(t *testing.T) {
	mem := NewMemStore(DefaultSize)
	if err := mem.Put(0, Encode(logic.Config{PreheatTarget: 180, ReflowTarget: 260})); err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := NewManager(staleTag{mem}, 0)

	for i := 0; i < 2; i++ {
		cfg, restored, err := m.Load()
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if !restored {
			t.Errorf("load %d: expected restored", i)
		}
		if cfg != logic.DefaultConfig() {
			t.Errorf("load %d: got %+v, want defaults", i, cfg)
		}
	}
	if mem.Commits != 2 {
		t.Errorf("commits: got %d, want 2", mem.Commits)
	}
}

func TestManagerSaveErrors(t *testing.T) {
	s := NewMemStore(DefaultSize)
	m := NewManager(s, 0)

	s.PutError = errors.New("write failed")
	if err := m.Save(logic.DefaultConfig()); err == nil {
		t.Error("put failure: expected error")
	}

	s.PutError = nil
	s.CommitError = errors.New("commit failed")
	if err := m.Save(logic.DefaultConfig()); err == nil {
		t.Error("commit failure: expected error")
	}
	if s.Commits != 0 {
		t.Errorf("commits: got %d, want 0", s.Commits)
	}
}

func TestManagerOutOfRange(t *testing.T) {
	m := NewManager(NewMemStore(8), 0)

	if _, _, err := m.Load(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "eeprom.bin")

	s, err := OpenFile(path, 64)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	b, err := s.Get(0, 4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(b, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("new image should be erased, got %v", b)
	}

	m := NewManager(s, 16)
	want := logic.Config{PreheatTarget: 140, ReflowTarget: 230}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 64 {
		t.Errorf("file size: got %d, want 64", info.Size())
	}

	reopened, err := OpenFile(path, 64)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, restored, err := NewManager(reopened, 16).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored {
		t.Error("reopened store should keep the record")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFileStoreCommitWithoutChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	s, err := OpenFile(path, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("clean commit should not create the file, stat err %v", err)
	}
	if s.Path() != path {
		t.Errorf("Path: got %q, want %q", s.Path(), path)
	}
}

func TestFileStoreBounds(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "eeprom.bin"), 16)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if err := s.Put(10, make([]byte, 8)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Put past end: got %v, want ErrOutOfRange", err)
	}
	if _, err := s.Get(-1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Get negative: got %v, want ErrOutOfRange", err)
	}
}
