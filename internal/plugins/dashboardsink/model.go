package dashboardsink

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/spinner"
)

// Model is the bubbletea model driving the dashboard's terminal rendering.
// Updates arrive as statsMsg values pushed from the sink's own Consume
// method through updates; the model never touches the graph directly.
type Model struct {
	name     string
	spinner  spinner.Model
	snapshot Snapshot
	started  time.Time
	quitting bool

	updates <-chan tea.Msg
}

// NewModel builds a dashboard model for a sink named name, reading its
// redraw-driving messages off updates.
func NewModel(name string, updates <-chan tea.Msg) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = againStyle
	return Model{name: name, spinner: sp, started: time.Now(), updates: updates}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates))
}

// waitForUpdate blocks on the update channel and re-arms itself, the
// standard bubbletea pattern for bridging an external event source into
// the Elm-architecture loop.
func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return quitMsg{}
		}
		return msg
	}
}

func (m Model) sortedKinds() []string {
	kinds := make([]string, 0, len(m.snapshot.MessagesByKind))
	for k := range m.snapshot.MessagesByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
