package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/imgajeed76/gridview/internal/ui/styles"
)

// Spinner provides a simple animated spinner for long operations such as
// connecting to a database or loading a large file. It writes to stderr so
// piped output stays clean.
type Spinner struct {
	message string
	out     io.Writer
	animate bool
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
		animate: !styles.IsAccessible() && term.IsTerminal(int(os.Stderr.Fd())),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY: stay quiet, the result line says enough
	if !s.animate {
		return
	}

	frames := spinner.Dot.Frames
	interval := spinner.Dot.FPS
	style := lipgloss.NewStyle().Foreground(styles.Accent)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := styles.Render(style, frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
			}
		}
	}()
}

// Stop stops the spinner and waits for its line to be cleared. It is safe
// to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}
