package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker := New(started)

	var seen []Stats
	tracker.OnChange(func(s Stats) { seen = append(seen, s) })

	tracker.Update(Delta{Created: 1})
	tracker.Update(Delta{Executing: 1})
	tracker.Update(Delta{Executing: -1, Completed: 1})

	assert.Equal(t, Stats{StartedAt: started, Created: 1, Completed: 1}, tracker.Snapshot())
	assert.Len(t, seen, 3)
	assert.Equal(t, 1, seen[1].Executing)

	tracker.OnChange(nil)
	tracker.Update(Delta{Deleted: 1})
	assert.Len(t, seen, 3)
}

func TestProgress_Concurrent(t *testing.T) {
	tracker := New(time.Now())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Created: 1, Failed: 1})
		}()
	}
	wg.Wait()
	stats := tracker.Snapshot()
	assert.Equal(t, 50, stats.Created)
	assert.Equal(t, 50, stats.Failed)
}

func TestProgress_Nil(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Created: 1})
	tracker.OnChange(func(Stats) {})
	assert.Equal(t, Stats{}, tracker.Snapshot())
}
