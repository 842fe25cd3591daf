package recorder

import "BidSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordWin(_ *model.LedgerEntry) error  { return nil }
func (n *NoopRecorder) RecordBid(_ *BidEvent) error           { return nil }
func (n *NoopRecorder) RecordThrottle(_ *ThrottleEvent) error { return nil }
func (n *NoopRecorder) RecordCycle(_ *CycleEvent) error       { return nil }
func (n *NoopRecorder) Close() error                          { return nil }
