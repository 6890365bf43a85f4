package managesieve

import "sync/atomic"

// ClientStats contains statistics about session operations.
// All fields are safe for concurrent access.
//
// For Prometheus integration, expose these as:
//   - Counters: RoundTrips, Lists, Gets, Puts, Deletes, Activations, Errors
//   - Counters: BytesUploaded, BytesDownloaded
type ClientStats struct {
	RoundTrips  uint64 // Completed command round trips
	Lists       uint64 // Successful LISTSCRIPTS operations
	Gets        uint64 // Successful GETSCRIPT operations
	Puts        uint64 // Successful PUTSCRIPT operations
	Deletes     uint64 // Successful DELETESCRIPT operations
	Activations uint64 // Successful SETACTIVE operations
	Errors      uint64 // Write, read and protocol errors

	BytesUploaded   uint64 // Script content bytes sent via PUTSCRIPT
	BytesDownloaded uint64 // Script content bytes received via GETSCRIPT
}

// clientStatsCollector provides internal methods for updating stats.
// Not exported - the client updates its own stats.
type clientStatsCollector struct {
	stats *ClientStats
}

func newClientStatsCollector() *clientStatsCollector {
	return &clientStatsCollector{
		stats: &ClientStats{},
	}
}

func (c *clientStatsCollector) recordRoundTrip() {
	atomic.AddUint64(&c.stats.RoundTrips, 1)
}

func (c *clientStatsCollector) recordList() {
	atomic.AddUint64(&c.stats.Lists, 1)
}

func (c *clientStatsCollector) recordGet(bytes int64) {
	atomic.AddUint64(&c.stats.Gets, 1)
	atomic.AddUint64(&c.stats.BytesDownloaded, uint64(bytes))
}

func (c *clientStatsCollector) recordPut(bytes int64) {
	atomic.AddUint64(&c.stats.Puts, 1)
	atomic.AddUint64(&c.stats.BytesUploaded, uint64(bytes))
}

func (c *clientStatsCollector) recordDelete() {
	atomic.AddUint64(&c.stats.Deletes, 1)
}

func (c *clientStatsCollector) recordActivate() {
	atomic.AddUint64(&c.stats.Activations, 1)
}

func (c *clientStatsCollector) recordError() {
	atomic.AddUint64(&c.stats.Errors, 1)
}

func (c *clientStatsCollector) snapshot() ClientStats {
	return ClientStats{
		RoundTrips:      atomic.LoadUint64(&c.stats.RoundTrips),
		Lists:           atomic.LoadUint64(&c.stats.Lists),
		Gets:            atomic.LoadUint64(&c.stats.Gets),
		Puts:            atomic.LoadUint64(&c.stats.Puts),
		Deletes:         atomic.LoadUint64(&c.stats.Deletes),
		Activations:     atomic.LoadUint64(&c.stats.Activations),
		Errors:          atomic.LoadUint64(&c.stats.Errors),
		BytesUploaded:   atomic.LoadUint64(&c.stats.BytesUploaded),
		BytesDownloaded: atomic.LoadUint64(&c.stats.BytesDownloaded),
	}
}
