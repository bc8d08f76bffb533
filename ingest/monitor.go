package ingest

// Monitor receives callbacks describing the fate of an ingestion call.
// The returned success count stays authoritative; a monitor is the
// opt-in way to learn which records were dropped and why.
type Monitor interface {
	// BulkFallback is called when a bulk add fails and the chunk is
	// retried record by record.
	BulkFallback(chunk int, err error)

	// DocumentDropped is called for each record that also failed its
	// individual add and was dropped.
	DocumentDropped(index int, err error)

	// Committed is called after the final commit succeeds, with the
	// total number of records persisted.
	Committed(total int)
}

// noopMonitor ignores every callback.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (m *noopMonitor) BulkFallback(chunk int, err error)    {}
func (m *noopMonitor) DocumentDropped(index int, err error) {}
func (m *noopMonitor) Committed(total int)                  {}
