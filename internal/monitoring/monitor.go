package monitoring

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
)

// Monitor keeps the last-run outcome per analysis workflow for the health
// endpoints. Workflows run concurrently on their own request goroutines,
// so access is guarded.
type Monitor struct {
	mu       sync.RWMutex
	lastRuns map[string]runRecord
}

type runRecord struct {
	success bool
	summary string
	at      time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{lastRuns: make(map[string]runRecord)}
}

func (m *Monitor) RecordSuccess(workflow, summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRuns[workflow] = runRecord{success: true, summary: summary, at: time.Now()}
	m.mu.Unlock()

	log.Printf("✅ %s completed - %s (took %v)", workflow, summary, duration)
}

func (m *Monitor) RecordFailure(workflow string, err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRuns[workflow] = runRecord{success: false, summary: err.Error(), at: time.Now()}
	m.mu.Unlock()

	log.Printf("🚨 %s failed: %s (took %v)", workflow, err.Error(), duration)
}

// IsHealthy reports true when no workflow's most recent run failed. A
// server with no runs yet is healthy.
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, run := range m.lastRuns {
		if !run.success {
			return false
		}
	}
	return true
}

// StatusSummary renders one line per workflow, most recent first.
func (m *Monitor) StatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.lastRuns) == 0 {
		return "No runs yet"
	}

	type entry struct {
		workflow string
		run      runRecord
	}
	entries := make([]entry, 0, len(m.lastRuns))
	for workflow, run := range m.lastRuns {
		entries = append(entries, entry{workflow, run})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].run.at.After(entries[j].run.at)
	})

	var lines []string
	for _, e := range entries {
		mark := "✅"
		if !e.run.success {
			mark = "❌"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s (%s)",
			mark, e.workflow, e.run.summary, e.run.at.Format("Jan 2 15:04")))
	}
	return strings.Join(lines, "\n")
}
