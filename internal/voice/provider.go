// Package voice defines the transcript capability the CLI feeds into the
// dialogue as free text. Speech recognition itself is platform specific and
// not part of this module; LineProvider stands in for it with a text feed.
package voice

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/wolfman30/symptom-checker/pkg/logging"
)

// ErrAlreadyStarted is returned by Start on a running provider.
var ErrAlreadyStarted = errors.New("voice: provider already started")

// InputProvider delivers recognized transcripts.
type InputProvider interface {
	Start(ctx context.Context) error
	Stop() error
	OnTranscript(fn func(transcript string))
}

// LineProvider emits every non-blank line of a reader as one transcript.
type LineProvider struct {
	r      io.Reader
	logger *logging.Logger

	mu      sync.Mutex
	handler func(string)
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewLineProvider reads transcripts from r. If r is an io.Closer it is
// closed by Stop to unblock a pending read.
func NewLineProvider(r io.Reader, logger *logging.Logger) *LineProvider {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineProvider{r: r, logger: logger}
}

// OnTranscript sets the callback. Transcripts read before a callback is
// set are dropped.
func (p *LineProvider) OnTranscript(fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = fn
}

// Start begins reading in a background goroutine.
func (p *LineProvider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	return nil
}

// Done is closed once the reader is exhausted or the provider stopped.
func (p *LineProvider) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Stop ends the feed and waits for the reader goroutine to exit.
func (p *LineProvider) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if done == nil {
		return nil
	}
	cancel()
	var err error
	if c, ok := p.r.(io.Closer); ok {
		err = c.Close()
	}
	<-done
	return err
}

func (p *LineProvider) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(p.r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		transcript := strings.TrimSpace(scanner.Text())
		if transcript == "" {
			continue
		}
		p.mu.Lock()
		fn := p.handler
		p.mu.Unlock()
		if fn != nil {
			fn(transcript)
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		p.logger.Warn("voice: transcript feed failed", "error", err)
	}
}
