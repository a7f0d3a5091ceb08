package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

func testRecord(id, playerID string) model.GameRecord {
	return model.GameRecord{
		RecordID: id,
		PlayerID: playerID,
		Date:     time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
		Minutes:  30,
		Points:   20,
	}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, testRecord("rec1", "p1")) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	recordChan := q.Dequeue(ctx)
	rec := <-recordChan
	if rec.RecordID != "rec1" {
		t.Errorf("expected rec1, got %v", rec.RecordID)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, testRecord("rec1", "p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testRecord("rec2", "p2")) {
		t.Error("expected enqueue to succeed")
	}

	// Try to enqueue when full.
	if q.Enqueue(ctx, testRecord("rec3", "p3")) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()
	numGoroutines := 10
	numRecords := 100

	done := make(chan bool, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numRecords; j++ {
				rec := testRecord(fmt.Sprintf("rec%d_%d", id, j), fmt.Sprintf("player%d", id))
				for !q.Enqueue(ctx, rec) {
					time.Sleep(time.Millisecond)
				}
			}
			done <- true
		}(i)
	}

	consumed := make(chan string, numGoroutines*numRecords)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			recordChan := q.Dequeue(ctx)
			for rec := range recordChan {
				consumed <- rec.RecordID
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	// Wait a bit for consumers to drain the channel.
	time.Sleep(100 * time.Millisecond)

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, testRecord("rec1", "p1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, testRecord("rec2", "p2")) {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if q.Enqueue(ctx, testRecord("rec1", "p1")) {
		t.Error("expected enqueue to fail after closing")
	}

	recordChan := q.Dequeue(ctx)

	// The dequeue channel drains remaining records and then closes.
	timeout := time.After(100 * time.Millisecond)
	for {
		select {
		case _, ok := <-recordChan:
			if !ok {
				goto channelClosed
			}
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
channelClosed:

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
