package agent

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ID prefix constants for different entity types.
const (
	PrefixState = "st"
	PrefixRun   = "run"
	PrefixCall  = "call"
)

// GenerateID produces a unique identifier with the given prefix and embedded timestamp.
// Format: {prefix}_{YYYYMMDDTHHmmss}_{16 hex chars}  e.g. "run_20260208T150405_a1b2c3d4e5f6a7b8"
func GenerateID(prefix string) string {
	ts := time.Now().UTC().Format("20060102T150405")
	u := uuid.New()
	return prefix + "_" + ts + "_" + hex.EncodeToString(u[:8])
}
