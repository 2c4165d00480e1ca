package buffer

import (
	"fmt"
	"log/slog"
)

// Status is the set of condition flags of a buffer at one instant.
type Status struct {
	Full       bool `json:"full"`
	Empty      bool `json:"empty"`
	Overflowed bool `json:"overflowed"`
}

// DebugInfo is a snapshot of buffer internals for diagnostics.
type DebugInfo struct {
	Capacity   int  `json:"capacity"`
	Count      int  `json:"count"`
	ReadPos    int  `json:"read_pos"`
	WritePos   int  `json:"write_pos"`
	Free       int  `json:"free"`
	Overflowed bool `json:"overflowed"`
}

func (d DebugInfo) String() string {
	return fmt.Sprintf("capacity=%d count=%d read_pos=%d write_pos=%d free=%d overflowed=%t",
		d.Capacity, d.Count, d.ReadPos, d.WritePos, d.Free, d.Overflowed)
}

// LogValue implements slog.LogValuer.
func (d DebugInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("capacity", d.Capacity),
		slog.Int("count", d.Count),
		slog.Int("read_pos", d.ReadPos),
		slog.Int("write_pos", d.WritePos),
		slog.Int("free", d.Free),
		slog.Bool("overflowed", d.Overflowed),
	)
}
