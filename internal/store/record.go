package store

import (
	"encoding/binary"
	"fmt"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// SchemaVersion tags the current record layout.
const SchemaVersion uint32 = 1

// Record layout, little-endian:
//
//	0  uint32 schema version
//	4  int32  preheat target
//	8  int32  reflow target
const (
	versionSize = 4
	RecordSize  = 12
)

// Encode serialises cfg with the current schema version.
func Encode(cfg logic.Config) []byte {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(b[0:4], SchemaVersion)
	binary.LittleEndian.PutUint32(b[4:8], uint32(int32(cfg.PreheatTarget)))
	binary.LittleEndian.PutUint32(b[8:12], uint32(int32(cfg.ReflowTarget)))
	return b
}

// Decode parses a record. It fails on short input or a foreign version.
func Decode(b []byte) (logic.Config, error) {
	if len(b) < RecordSize {
		return logic.Config{}, fmt.Errorf("record: got %d bytes, want %d", len(b), RecordSize)
	}
	if v := binary.LittleEndian.Uint32(b[0:4]); v != SchemaVersion {
		return logic.Config{}, fmt.Errorf("record: schema version %d, want %d", v, SchemaVersion)
	}
	return logic.Config{
		PreheatTarget: int(int32(binary.LittleEndian.Uint32(b[4:8]))),
		ReflowTarget:  int(int32(binary.LittleEndian.Uint32(b[8:12]))),
	}, nil
}
