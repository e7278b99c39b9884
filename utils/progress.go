package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	errorColor   = "\x1b[31m"
	successColor = "\x1b[32m"
	defaultColor = "\x1b[0m"
)

var spinner = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// ProgressIndicator draws a spinner followed by the name of the running step.
type ProgressIndicator struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	frame      int
	// StopMsg is printed once the indicator is stopped.
	StopMsg string
	// HideCursor hides the terminal cursor while spinning.
	HideCursor bool

	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewProgressIndicator returns an indicator writing to stderr.
func NewProgressIndicator(msg string, d time.Duration) *ProgressIndicator {
	return NewProgressIndicatorTo(os.Stderr, msg, d)
}

// NewProgressIndicatorTo returns an indicator writing to w.
func NewProgressIndicatorTo(w io.Writer, msg string, d time.Duration) *ProgressIndicator {
	return &ProgressIndicator{
		delay:   d,
		writer:  w,
		message: msg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start starts spinning in a separate goroutine.
func (pi *ProgressIndicator) Start() {
	pi.mu.Lock()
	if pi.started {
		pi.mu.Unlock()
		return
	}
	pi.started = true
	if pi.HideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(pi.writer, "\033[?25l")
	}
	pi.render()
	pi.mu.Unlock()

	go func() {
		defer close(pi.done)
		ticker := time.NewTicker(pi.delay)
		defer ticker.Stop()
		for {
			select {
			case <-pi.stop:
				return
			case <-ticker.C:
				pi.mu.Lock()
				pi.render()
				pi.mu.Unlock()
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (pi *ProgressIndicator) Update(msg string) {
	pi.mu.Lock()
	defer pi.mu.Unlock()

	pi.message = msg
	if pi.started {
		pi.clear()
		pi.render()
	}
}

// Stop stops the spinner, clears its line and prints StopMsg. It is safe
// to call Stop more than once.
func (pi *ProgressIndicator) Stop() {
	pi.stopOnce.Do(func() {
		close(pi.stop)
		pi.mu.Lock()
		started := pi.started
		pi.mu.Unlock()
		if started {
			<-pi.done
		}

		pi.mu.Lock()
		defer pi.mu.Unlock()
		pi.clear()
		pi.RestoreCursor()
		if len(pi.StopMsg) > 0 {
			fmt.Fprint(pi.writer, pi.StopMsg)
		}
	})
}

// Fail stops the spinner and prints msg in red instead of StopMsg.
func (pi *ProgressIndicator) Fail(msg string) {
	pi.StopMsg = errorColor + msg + defaultColor + "\n"
	pi.Stop()
}

// RestoreCursor makes the cursor visible again.
func (pi *ProgressIndicator) RestoreCursor() {
	if pi.HideCursor && runtime.GOOS != "windows" {
		fmt.Fprint(pi.writer, "\033[?25h")
	}
}

// render draws the next frame. Caller must hold the lock.
func (pi *ProgressIndicator) render() {
	r := spinner[pi.frame%len(spinner)]
	pi.frame++
	pi.lastOutput = fmt.Sprintf("\r%s%s %c%s", pi.message, successColor, r, defaultColor)
	fmt.Fprint(pi.writer, pi.lastOutput)
}

// clear deletes the last line. Caller must hold the lock.
func (pi *ProgressIndicator) clear() {
	if pi.lastOutput == "" {
		return
	}
	n := utf8.RuneCountInString(pi.lastOutput)
	if runtime.GOOS == "windows" {
		fmt.Fprint(pi.writer, "\r"+strings.Repeat(" ", n)+"\r")
		pi.lastOutput = ""
		return
	}
	fmt.Fprint(pi.writer, "\r\033[K")
	pi.lastOutput = ""
}
