package voice

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wolfman30/symptom-checker/pkg/logging"
)

func TestLineProviderEmitsTrimmedLines(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewLineProvider(strings.NewReader("  my head hurts \n\n   \nsince yesterday\n"), logging.Discard())
	var mu sync.Mutex
	var got []string
	p.OnTranscript(func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})

	require.NoError(t, p.Start(context.Background()))
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("feed did not finish")
	}
	require.NoError(t, p.Stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"my head hurts", "since yesterday"}, got)
}

func TestLineProviderStartTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewLineProvider(strings.NewReader(""), logging.Discard())
	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyStarted)
	require.NoError(t, p.Stop())
}

func TestLineProviderStopUnblocksRead(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, w := io.Pipe()
	defer w.Close()
	p := NewLineProvider(r, logging.Discard())
	received := make(chan string, 1)
	p.OnTranscript(func(s string) { received <- s })

	require.NoError(t, p.Start(context.Background()))
	_, err := io.WriteString(w, "chest pain\n")
	require.NoError(t, err)
	assert.Equal(t, "chest pain", <-received)

	require.NoError(t, p.Stop())
}

func TestLineProviderStopBeforeStart(t *testing.T) {
	p := NewLineProvider(strings.NewReader("x\n"), nil)
	assert.NoError(t, p.Stop())
}

var _ InputProvider = (*LineProvider)(nil)
