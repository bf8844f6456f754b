package darkgraph

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(cmd tea.Cmd) <-chan tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	return ch
}

func receive(t *testing.T, ch <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func TestSchedulerToggle(t *testing.T) {
	s := NewScheduler(clock.NewMock(), time.Second)
	assert.False(t, s.Enabled())

	token, started := s.Toggle()
	assert.True(t, started)
	assert.NotZero(t, token)
	assert.True(t, s.Enabled())
	assert.Equal(t, token, s.Active())

	off, started := s.Toggle()
	assert.False(t, started)
	assert.Zero(t, off)
	assert.False(t, s.Enabled())
	assert.False(t, s.Due(token))
}

func TestSchedulerWaitFiresAfterPeriod(t *testing.T) {
	mock := clock.NewMock()
	s := NewScheduler(mock, time.Second)
	token := s.Start()

	ch := runCmd(s.Wait(token))
	mock.Add(999 * time.Millisecond)
	select {
	case msg := <-ch:
		t.Fatalf("fired early with %v", msg)
	default:
	}

	mock.Add(time.Millisecond)
	assert.Equal(t, autoReloadMsg{token: token}, receive(t, ch))
	assert.True(t, s.Due(token))
}

func TestSchedulerStopReleasesWait(t *testing.T) {
	mock := clock.NewMock()
	s := NewScheduler(mock, time.Second)
	token := s.Start()

	ch := runCmd(s.Wait(token))
	s.Stop(token)
	assert.Nil(t, receive(t, ch))

	// a period ending for a stopped loop does not re-arm
	assert.False(t, s.Due(token))
	assert.Nil(t, s.Wait(token))
}

func TestSchedulerRestartInvalidatesOldToken(t *testing.T) {
	mock := clock.NewMock()
	s := NewScheduler(mock, time.Second)

	first := s.Start()
	old := runCmd(s.Wait(first))
	second := s.Start()
	require.NotEqual(t, first, second)

	assert.Nil(t, receive(t, old))
	assert.False(t, s.Due(first))
	assert.True(t, s.Due(second))

	// stopping with a stale token leaves the new loop alone
	s.Stop(first)
	assert.True(t, s.Enabled())

	ch := runCmd(s.Wait(second))
	mock.Add(time.Second)
	assert.Equal(t, autoReloadMsg{token: second}, receive(t, ch))
}

func TestSchedulerZeroTokenIsNeverDue(t *testing.T) {
	s := NewScheduler(clock.NewMock(), time.Second)
	assert.False(t, s.Due(0))
	assert.Nil(t, s.Wait(0))
	s.Stop(0)
	assert.False(t, s.Enabled())
}
