// Package monitor watches a shared project plan file and reports when it changes.
//
// Each check is a pure step: Check takes the state left by the previous check and
// returns the new state plus the event it observed. A change is either a new
// modification time or new content. The Monitor type drives Check on a ticker,
// optionally woken early by filesystem events, and notifies on updates.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rewired-gh/tradeoracle/internal/logger"
)

// EventKind classifies the outcome of one check.
type EventKind int

const (
	EventUnchanged EventKind = iota
	EventInitial
	EventUpdated
	EventMissing
	EventReadError
)

func (k EventKind) String() string {
	switch k {
	case EventInitial:
		return "initial"
	case EventUpdated:
		return "updated"
	case EventMissing:
		return "missing"
	case EventReadError:
		return "read_error"
	default:
		return "unchanged"
	}
}

// PlanState is what the previous check saw. The zero value means nothing has been read yet.
type PlanState struct {
	Content     string
	ModTime     time.Time
	Initialized bool
}

// Event is the result of one check.
type Event struct {
	Kind         EventKind
	At           time.Time
	Content      string
	UIAgentTasks bool
	Err          error
}

// Message is the log line for the event.
func (e Event) Message() string {
	switch e.Kind {
	case EventInitial:
		return "Initial check - monitoring started"
	case EventUpdated:
		return "PROJECT PLAN UPDATED!"
	case EventMissing:
		return "Project plan not found"
	case EventReadError:
		return fmt.Sprintf("Error reading project plan: %v", e.Err)
	default:
		return "No changes detected - idle"
	}
}

// HasUIAgentTasks reports whether the plan assigns work to the UI agent.
func HasUIAgentTasks(content string) bool {
	return strings.Contains(content, "UI Agent:") || strings.Contains(strings.ToLower(content), "ui-agent:")
}

// Check reads path and compares it to prev. A missing or unreadable file leaves
// the state untouched so a later reappearance is compared against the last content.
func Check(path string, prev PlanState, now time.Time) (PlanState, Event) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return prev, Event{Kind: EventMissing, At: now}
	}
	if err != nil {
		return prev, Event{Kind: EventReadError, At: now, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return prev, Event{Kind: EventReadError, At: now, Err: err}
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return prev, Event{Kind: EventReadError, At: now, Err: err}
	}

	next := PlanState{Content: string(data), ModTime: info.ModTime(), Initialized: true}
	ev := Event{At: now, Content: next.Content, UIAgentTasks: HasUIAgentTasks(next.Content)}

	switch {
	case !prev.Initialized:
		ev.Kind = EventInitial
	case !next.ModTime.Equal(prev.ModTime) || next.Content != prev.Content:
		ev.Kind = EventUpdated
	default:
		ev.Kind = EventUnchanged
	}
	return next, ev
}

// Notifier receives plan updates.
type Notifier interface {
	SendPlanUpdate(path, content string, uiAgentTasks bool) error
}

// Monitor polls one plan file.
type Monitor struct {
	path     string
	interval time.Duration
	watch    bool
	out      io.Writer
	notifier Notifier
	now      func() time.Time

	// OnEvent, when set, is called after every check.
	OnEvent func(Event)
}

// New creates a Monitor for path. Plan contents are echoed to out; notifier may be nil.
func New(path string, interval time.Duration, watch bool, out io.Writer, notifier Notifier) *Monitor {
	if out == nil {
		out = io.Discard
	}
	return &Monitor{
		path:     path,
		interval: interval,
		watch:    watch,
		out:      out,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run checks immediately and then every interval until ctx is done, returning the last state.
func (m *Monitor) Run(ctx context.Context) (PlanState, error) {
	if m.interval <= 0 {
		return PlanState{}, fmt.Errorf("invalid interval %v: must be positive", m.interval)
	}

	var wake <-chan fsnotify.Event
	var watchErrs <-chan error
	if m.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return PlanState{}, fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer w.Close()
		// Watch the directory so editors that replace the file are still seen.
		if err := w.Add(filepath.Dir(m.path)); err != nil {
			return PlanState{}, fmt.Errorf("failed to watch %s: %w", filepath.Dir(m.path), err)
		}
		wake, watchErrs = w.Events, w.Errors
	}

	logger.Info("Monitoring %s every %v (watch: %v)", m.path, m.interval, m.watch)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var state PlanState
	state = m.step(state)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Monitoring stopped")
			return state, nil

		case <-ticker.C:
			state = m.step(state)

		case ev, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(m.path) {
				continue
			}
			logger.Debug("File event %s on %s", ev.Op, ev.Name)
			state = m.step(state)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warn("File watcher error: %v", err)
		}
	}
}

func (m *Monitor) step(prev PlanState) PlanState {
	next, ev := Check(m.path, prev, m.now())

	switch ev.Kind {
	case EventMissing:
		logger.Warn("%s: %s", ev.Message(), m.path)
	case EventReadError:
		logger.Error("%s", ev.Message())
	case EventUnchanged:
		logger.Debug("%s", ev.Message())
	case EventInitial, EventUpdated:
		logger.Info("%s", ev.Message())
		m.echo(ev)
	}

	if ev.Kind == EventUpdated && m.notifier != nil {
		if err := m.notifier.SendPlanUpdate(m.path, ev.Content, ev.UIAgentTasks); err != nil {
			logger.Warn("Failed to send plan update notification: %v", err)
		}
	}

	if m.OnEvent != nil {
		m.OnEvent(ev)
	}
	return next
}

func (m *Monitor) echo(ev Event) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(m.out, "[%s] %s\n%s\n%s\n%s\n", ev.At.Format("2006-01-02 15:04:05"), ev.Message(), rule, ev.Content, rule)
	if ev.UIAgentTasks {
		fmt.Fprintln(m.out, "Found tasks for UI Agent - review the project plan for details")
	}
}
