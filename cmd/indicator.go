package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ftl/cwplayer/morse"
	"github.com/ftl/cwplayer/play"
)

const defaultDebounceWindow = 300 * time.Millisecond

// consoleIndicator echoes the playback progress to the terminal: each Morse
// element is printed as it is played, one line per pass.
type consoleIndicator struct {
	out io.Writer

	lock      sync.Mutex
	code      string
	lastIndex int
}

func newConsoleIndicator(out io.Writer) *consoleIndicator {
	return &consoleIndicator{
		out:       out,
		lastIndex: -1,
	}
}

// SetMessage provides the message that is played next.
func (i *consoleIndicator) SetMessage(message morse.Message) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.code = message.Code
	i.lastIndex = -1
}

func (i *consoleIndicator) ShowHighlight(highlight play.Highlight) {
	i.lock.Lock()
	defer i.lock.Unlock()

	if highlight.Code <= i.lastIndex {
		// a new pass begins
		fmt.Fprintln(i.out)
		i.lastIndex = -1
	}
	if highlight.Code < len(i.code) {
		fmt.Fprint(i.out, i.code[i.lastIndex+1:highlight.Code+1])
	}
	i.lastIndex = highlight.Code
}

func (i *consoleIndicator) HideHighlight() {
	i.lock.Lock()
	defer i.lock.Unlock()

	if i.lastIndex >= 0 {
		fmt.Fprintln(i.out)
	}
	i.lastIndex = -1
}

func (i *consoleIndicator) PlaybackStarted() {}

func (i *consoleIndicator) PlaybackStopped() {}

func (i *consoleIndicator) PlaybackFailed(err error) {
	fmt.Fprintf(i.out, "playback failed: %v\n", err)
}
