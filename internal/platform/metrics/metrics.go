package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap in-process counters for the HTTP surface and the
// approval workflow. Snapshot is served on /metrics.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	submitted       uint64
	preApproved     uint64
	approved        uint64
	rejected        uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordSubmission()  { atomic.AddUint64(&c.submitted, 1) }
func (c *Collector) RecordPreApproval() { atomic.AddUint64(&c.preApproved, 1) }
func (c *Collector) RecordApproval()    { atomic.AddUint64(&c.approved, 1) }
func (c *Collector) RecordRejection()   { atomic.AddUint64(&c.rejected, 1) }

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"leaveSubmittedTotal":   atomic.LoadUint64(&c.submitted),
		"leavePreApprovedTotal": atomic.LoadUint64(&c.preApproved),
		"leaveApprovedTotal":    atomic.LoadUint64(&c.approved),
		"leaveRejectedTotal":    atomic.LoadUint64(&c.rejected),
	}
}
