package advisor

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestClient_ConcurrentConversation(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	client, err := NewClient(context.Background(), "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// The short deadline makes every model call fail fast; the point is
	// that concurrent sends must not corrupt the shared history.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Chat(ctx, "how are my finances?")
		}()
	}
	wg.Wait()

	// Failed calls record only the user turn, so exactly one entry per
	// caller must survive, with none lost to a torn append.
	if len(client.history) != callers {
		t.Errorf("history length = %d, want %d", len(client.history), callers)
	}
	for i, c := range client.history {
		if c == nil {
			t.Fatalf("history[%d] is nil", i)
		}
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "test-key")

	client, err := NewClient(context.Background(), "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.model != DefaultModel {
		t.Errorf("model = %q, want %q", client.model, DefaultModel)
	}
}
