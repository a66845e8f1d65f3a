package dashboardsink

import "time"

// tickMsg requests a redraw against the latest Stats snapshot.
type tickMsg time.Time

// statsMsg carries a fresh snapshot pushed from the sink's Consume method.
type statsMsg Snapshot

// quitMsg requests the program exit; waitForUpdate returns it when the
// updates channel is closed. Reaching End quits through an Ended statsMsg.
type quitMsg struct{}
