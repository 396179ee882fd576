package shared

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/frame-exporter/internal/exporter"
)

// StateBridge adapts a controller subscription to bubble tea messages.
type StateBridge struct {
	sub *exporter.Subscription
}

// NewStateBridge wraps sub.
func NewStateBridge(sub *exporter.Subscription) *StateBridge {
	return &StateBridge{sub: sub}
}

// ListenCmd returns a tea.Cmd that blocks until the next state is emitted.
// Call it again after each StateChangedMsg to keep listening.
func (b *StateBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		state, ok := <-b.sub.C()
		if !ok {
			return SubscriptionClosedMsg{}
		}

		return StateChangedMsg{State: state}
	}
}

// Close stops the subscription.
func (b *StateBridge) Close() {
	b.sub.Close()
}

// WaitCmd returns a tea.Cmd that reports when task finishes.
func WaitCmd(command string, task *exporter.Task) tea.Cmd {
	return func() tea.Msg {
		<-task.Done()
		return TaskDoneMsg{Command: command, Err: task.Err()}
	}
}
