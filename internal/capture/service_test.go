package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/MrSnakeDoc/marks/internal/collection"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/store/memory"
)

type fixedTitle string

func (f fixedTitle) Resolve(context.Context, string) string { return string(f) }

type failingSource struct{ err error }

func (f failingSource) ActiveTab(context.Context) (Tab, error) { return Tab{}, f.err }

func newTestService(t *testing.T, titles TitleResolver) (*Service, *collection.Manager) {
	t.Helper()

	m := collection.NewManager(memory.NewSlot(), logger.NewNop())
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return NewService(m, titles, logger.NewNop()), m
}

func TestManualCapture(t *testing.T) {
	svc, m := newTestService(t, nil)

	b, err := svc.Manual(context.Background(), StaticTab{URL: "https://github.com/golang/go", Title: "Go"}, "lang, Compiler")
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}
	if b == nil {
		t.Fatal("Manual() returned nil bookmark")
	}
	if len(b.Tags) != 2 || b.Tags[0] != "lang" || b.Tags[1] != "compiler" {
		t.Errorf("tags = %v, want [lang compiler]", b.Tags)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestManualCaptureWithoutTabIsSkipped(t *testing.T) {
	svc, m := newTestService(t, nil)

	b, err := svc.Manual(context.Background(), StaticTab{}, "x")
	if err != nil || b != nil {
		t.Fatalf("Manual() = (%v, %v), want (nil, nil)", b, err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestHotkeyCapture(t *testing.T) {
	tests := []struct {
		name    string
		command string
		wantErr error
		wantLen int
	}{
		{name: "save command", command: SaveCommand, wantLen: 1},
		{name: "unknown command", command: "open-popup", wantErr: domain.ErrUnknownCommand},
		{name: "empty command", command: "", wantErr: domain.ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(t, nil)
			tab := StaticTab{URL: "https://stackoverflow.com/questions/1", Title: ""}

			b, err := svc.Hotkey(context.Background(), tab, tt.command)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Hotkey() error = %v, want %v", err, tt.wantErr)
			}
			if m.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", m.Len(), tt.wantLen)
			}
			if tt.wantErr == nil {
				if len(b.Tags) == 0 || b.Tags[0] != "stackoverflow" {
					t.Errorf("tags = %v, want classifier tags starting with stackoverflow", b.Tags)
				}
			}
		})
	}
}

func TestCaptureFillsMissingTitle(t *testing.T) {
	svc, _ := newTestService(t, fixedTitle("Resolved Title"))

	b, err := svc.Hotkey(context.Background(), StaticTab{URL: "https://example.com"}, SaveCommand)
	if err != nil {
		t.Fatalf("Hotkey() error = %v", err)
	}
	if b.Title != "Resolved Title" {
		t.Errorf("Title = %q, want resolved title", b.Title)
	}
}

func TestCaptureKeepsGivenTitle(t *testing.T) {
	svc, _ := newTestService(t, fixedTitle("ignored"))

	b, err := svc.Manual(context.Background(), StaticTab{URL: "https://example.com", Title: "Mine"}, "")
	if err != nil {
		t.Fatalf("Manual() error = %v", err)
	}
	if b.Title != "Mine" {
		t.Errorf("Title = %q, want Mine", b.Title)
	}
}

func TestCaptureSourceError(t *testing.T) {
	svc, _ := newTestService(t, nil)
	boom := errors.New("tabs api unavailable")

	if _, err := svc.Manual(context.Background(), failingSource{err: boom}, ""); !errors.Is(err, boom) {
		t.Errorf("Manual() error = %v, want %v", err, boom)
	}
}
