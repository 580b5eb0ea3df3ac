package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/marks/internal/store"
)

func TestNewSlotIsEmpty(t *testing.T) {
	s := NewSlot()
	if _, err := s.Read(context.Background()); !errors.Is(err, store.ErrSlotEmpty) {
		t.Errorf("Read() on new slot error = %v, want ErrSlotEmpty", err)
	}
	if !s.LastWrite().IsZero() {
		t.Error("LastWrite() should be zero before any write")
	}
}

func TestWriteReturnsCopies(t *testing.T) {
	s := NewSlot()
	ctx := context.Background()

	data := []byte("[1]")
	if err := s.Write(ctx, data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data[1] = '9'

	got, _ := s.Read(ctx)
	if string(got) != "[1]" {
		t.Errorf("Read() = %s, want [1] (write must copy)", got)
	}

	got[1] = '7'
	again, _ := s.Read(ctx)
	if string(again) != "[1]" {
		t.Errorf("Read() = %s, want [1] (read must copy)", again)
	}
}

func TestFailWrites(t *testing.T) {
	s := NewSlot()
	ctx := context.Background()
	boom := errors.New("disk full")

	_ = s.Write(ctx, []byte("[]"))
	s.FailWrites(boom)

	if err := s.Write(ctx, []byte("[1]")); !errors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want %v", err, boom)
	}
	if got, _ := s.Read(ctx); string(got) != "[]" {
		t.Errorf("failed Write() changed value to %s", got)
	}
	if s.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", s.Writes())
	}

	s.FailWrites(nil)
	if err := s.Write(ctx, []byte("[2]")); err != nil {
		t.Errorf("Write() after recovery error = %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewSlot()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Write(ctx, []byte("[]"))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Read(ctx)
		}()
	}
	wg.Wait()

	if s.Writes() != 100 {
		t.Errorf("Writes() = %d, want 100", s.Writes())
	}
}
