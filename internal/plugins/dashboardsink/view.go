package dashboardsink

import (
	"fmt"
	"strings"
	"time"
)

func (m Model) View() string {
	if m.quitting {
		return endedStyle.Render(fmt.Sprintf("%s: stream ended, %d messages total\n", m.name, m.snapshot.TotalMessages))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.name)))
	b.WriteString("\n")

	b.WriteString(row("uptime", valueStyle.Render(time.Since(m.started).Round(time.Second).String())))
	b.WriteString(row("consume calls", valueStyle.Render(fmt.Sprintf("%d", m.snapshot.ConsumeCalls))))
	b.WriteString(row("messages", valueStyle.Render(fmt.Sprintf("%d", m.snapshot.TotalMessages))))
	b.WriteString(row("again", againStyle.Render(fmt.Sprintf("%d", m.snapshot.Again))))
	b.WriteString(row("errors", errorStyle.Render(fmt.Sprintf("%d", m.snapshot.Errors))))

	for _, kind := range m.sortedKinds() {
		b.WriteString(row("  "+kind, valueStyle.Render(fmt.Sprintf("%d", m.snapshot.MessagesByKind[kind]))))
	}

	b.WriteString(footerStyle.Render("q: quit"))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}
