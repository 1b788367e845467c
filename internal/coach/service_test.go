package coach

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"diabolohub/internal/locale"
)

// fakeModel is a test double for Model that records every call.
type fakeModel struct {
	mu      sync.Mutex
	reply   Reply
	err     error
	calls   int
	langs   []locale.Language
	history [][]Turn
}

func (m *fakeModel) Generate(_ context.Context, lang locale.Language, history []Turn, message string) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.langs = append(m.langs, lang)
	m.history = append(m.history, append([]Turn(nil), history...))
	if m.err != nil {
		return Reply{}, m.err
	}
	r := m.reply
	if r.Text == "echo" {
		r.Text = "re: " + message
	}
	return r, nil
}

func (m *fakeModel) Name() string { return "fake" }

func newTestService(m Model) (*Service, *MemoryHistory) {
	h := NewMemoryHistory(time.Hour)
	return NewService(m, h), h
}

func TestSendEmptyMessage(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "hi"}}
	s, _ := newTestService(m)

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := s.Send(context.Background(), "c1", locale.EN, msg); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) err = %v, want ErrEmptyMessage", msg, err)
		}
	}
	if m.calls != 0 {
		t.Errorf("model should not be called for blank messages, got %d calls", m.calls)
	}
}

func TestSendKeepsHistory(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "echo"}}
	s, _ := newTestService(m)
	ctx := context.Background()

	r1, err := s.Send(ctx, "c1", locale.EN, "How do I start?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if r1.Text != "re: How do I start?" || r1.Fallback {
		t.Errorf("unexpected reply %+v", r1)
	}

	if _, err := s.Send(ctx, "c1", locale.EN, "And then?"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.history[0]) != 0 {
		t.Errorf("first call should have empty history, got %v", m.history[0])
	}
	want := []Turn{
		{Role: RoleUser, Text: "How do I start?"},
		{Role: RoleModel, Text: "re: How do I start?"},
	}
	if len(m.history[1]) != 2 || m.history[1][0] != want[0] || m.history[1][1] != want[1] {
		t.Errorf("second call history = %v, want %v", m.history[1], want)
	}

	// Another conversation is independent.
	if _, err := s.Send(ctx, "c2", locale.EN, "Hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(m.history[2]) != 0 {
		t.Errorf("new conversation should start empty, got %v", m.history[2])
	}
}

func TestSendLanguageChangeRestarts(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "echo"}}
	s, h := newTestService(m)
	ctx := context.Background()

	s.Send(ctx, "c1", locale.ES, "Hola")
	s.Send(ctx, "c1", locale.FR, "Bonjour")

	if m.langs[1] != locale.FR {
		t.Errorf("second call lang = %s, want FR", m.langs[1])
	}
	if len(m.history[1]) != 0 {
		t.Errorf("history should be reset on language change, got %v", m.history[1])
	}

	conv, _ := h.Load(ctx, "c1")
	if conv.Lang != locale.FR || len(conv.Turns) != 2 {
		t.Errorf("stored conversation = %+v", conv)
	}
}

func TestSendInvalidLanguageUsesDefault(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "ok"}}
	s, _ := newTestService(m)

	s.Send(context.Background(), "c1", locale.Language("XX"), "hola")
	if m.langs[0] != locale.Default {
		t.Errorf("lang = %s, want %s", m.langs[0], locale.Default)
	}
}

func TestSendModelErrorFallback(t *testing.T) {
	tests := []struct {
		lang locale.Language
		want string
	}{
		{locale.ES, "Hubo un problema técnico."},
		{locale.EN, "There was a technical issue."},
		{locale.JA, "There was a technical issue."},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			m := &fakeModel{err: errors.New("quota exceeded")}
			s, h := newTestService(m)

			r, err := s.Send(context.Background(), "c1", tt.lang, "hola")
			if err != nil {
				t.Fatalf("Send should not surface model errors, got %v", err)
			}
			if r.Text != tt.want || !r.Fallback {
				t.Errorf("reply = %+v, want fallback %q", r, tt.want)
			}
			if strings.Contains(r.Text, "quota") {
				t.Error("raw error leaked into reply")
			}
			if conv, _ := h.Load(context.Background(), "c1"); len(conv.Turns) != 0 {
				t.Error("failed exchange must not be stored")
			}
		})
	}
}

func TestSendEmptyResponseFallback(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "  "}}
	s, _ := newTestService(m)

	r, err := s.Send(context.Background(), "c1", locale.ES, "hola")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if r.Text != "Error de conexión con el servidor." || !r.Fallback {
		t.Errorf("reply = %+v", r)
	}

	r, _ = s.Send(context.Background(), "c2", locale.DE, "hallo")
	if r.Text != "Connection error." {
		t.Errorf("reply = %+v", r)
	}
}

func TestSendPassesCitations(t *testing.T) {
	cites := []Citation{{Title: "Juggle Wiki", URI: "https://juggle.fandom.com/wiki/Diabolo"}}
	m := &fakeModel{reply: Reply{Text: "Vertax is...", Citations: cites}}
	s, _ := newTestService(m)

	r, err := s.Send(context.Background(), "c1", locale.EN, "What is vertax?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(r.Citations) != 1 || r.Citations[0] != cites[0] {
		t.Errorf("citations = %v", r.Citations)
	}
}

func TestSendTruncatesLongMessage(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "ok"}}
	s, h := newTestService(m)

	s.Send(context.Background(), "c1", locale.EN, strings.Repeat("é", MaxMessageLen+50))
	conv, _ := h.Load(context.Background(), "c1")
	if got := len([]rune(conv.Turns[0].Text)); got != MaxMessageLen {
		t.Errorf("stored message has %d runes, want %d", got, MaxMessageLen)
	}
}

func TestSendConcurrentConversation(t *testing.T) {
	m := &fakeModel{reply: Reply{Text: "ok"}}
	s, h := newTestService(m)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Send(context.Background(), "shared", locale.EN, "hi")
		}()
	}
	wg.Wait()

	conv, _ := h.Load(context.Background(), "shared")
	if len(conv.Turns) != 20 {
		t.Errorf("expected 20 turns after 10 serialized exchanges, got %d", len(conv.Turns))
	}
}
