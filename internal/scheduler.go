package darkgraph

import (
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
)

// Token identifies one run of the auto-reload loop. The zero Token is never active.
type Token uint64

// autoReloadMsg is delivered when a scheduled reload period has elapsed.
type autoReloadMsg struct {
	token Token
}

// Scheduler owns the auto-reload state. It is not a ticker: every period
// ends in a message, and the loop only continues if the token carried by
// that message is still the active one. Stopping the loop therefore takes
// effect at the next period boundary, while a fetch already issued still
// completes and renders.
//
// All methods must be called from the event loop.
type Scheduler struct {
	clock  clock.Clock
	period time.Duration

	last   Token
	active Token
	cancel chan struct{}
}

func NewScheduler(clk clock.Clock, period time.Duration) *Scheduler {
	return &Scheduler{
		clock:  clk,
		period: period,
	}
}

// Enabled reports whether the loop is running.
func (s *Scheduler) Enabled() bool {
	return s.active != 0
}

// Active returns the token of the running loop, 0 when stopped.
func (s *Scheduler) Active() Token {
	return s.active
}

// Period returns the time between two scheduled reloads.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Start activates a new loop and returns its token. A loop that is already
// running is stopped first.
func (s *Scheduler) Start() Token {
	if s.Enabled() {
		s.Stop(s.active)
	}
	s.last++
	s.active = s.last
	s.cancel = make(chan struct{})
	return s.active
}

// Stop ends the loop identified by t. Stale tokens are ignored.
func (s *Scheduler) Stop(t Token) {
	if t == 0 || t != s.active {
		return
	}
	s.active = 0
	close(s.cancel)
	s.cancel = nil
}

// Toggle flips the loop on or off. It returns the new token and true when
// the loop was started.
func (s *Scheduler) Toggle() (Token, bool) {
	if s.Enabled() {
		s.Stop(s.active)
		return 0, false
	}
	return s.Start(), true
}

// Due reports whether a period that ended for t should reload and re-arm.
func (s *Scheduler) Due(t Token) bool {
	return t != 0 && t == s.active
}

// Wait arms a timer for one period and returns the command that reports its
// expiry. The timer is created before Wait returns so that its deadline is
// fixed by the caller's clock reading, not by when the command gets to run.
// Stopping the loop releases the waiting command without a message.
func (s *Scheduler) Wait(t Token) tea.Cmd {
	if !s.Due(t) {
		return nil
	}
	timer := s.clock.Timer(s.period)
	cancel := s.cancel
	return func() tea.Msg {
		select {
		case <-timer.C:
			return autoReloadMsg{token: t}
		case <-cancel:
			timer.Stop()
			return nil
		}
	}
}
