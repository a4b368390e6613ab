// Package agent hosts the team definitions and the runtime that executes
// them against a model provider.
package agent

import (
	"fmt"
	"strings"
	"time"
)

// Member is a specialist the team leader can act as
type Member struct {
	ID           string
	Name         string
	Role         string
	Instructions []string
}

// Team is the static configuration of an agent team
type Team struct {
	ID           string
	Name         string
	Description  string
	Members      []Member
	Instructions []string

	Markdown             bool
	AddDatetimeToContext bool
	AddHistoryToContext  bool
	NumHistoryRuns       int
}

// SystemPrompt renders the team into the system prompt of a single model call
func (t *Team) SystemPrompt(now time.Time) string {
	var b strings.Builder

	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n\n")
	}

	if len(t.Instructions) > 0 {
		b.WriteString("<instructions>\n")
		for _, line := range t.Instructions {
			writeInstruction(&b, line)
		}
		b.WriteString("</instructions>\n\n")
	}

	if len(t.Members) > 0 {
		b.WriteString("<team_members>\n")
		b.WriteString("You answer on behalf of these members. Adopt the member whose role fits the request and follow their guidelines.\n")
		for _, m := range t.Members {
			fmt.Fprintf(&b, "\n<member id=%q name=%q>\n", m.ID, m.Name)
			fmt.Fprintf(&b, "Role: %s\n", m.Role)
			for _, line := range m.Instructions {
				writeInstruction(&b, line)
			}
			b.WriteString("</member>\n")
		}
		b.WriteString("</team_members>\n\n")
	}

	if t.Markdown {
		b.WriteString("Use markdown to format your answers.\n")
	}
	if t.AddDatetimeToContext {
		fmt.Fprintf(&b, "The current time is %s.\n", now.Format(time.RFC1123))
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeInstruction(b *strings.Builder, line string) {
	if strings.HasPrefix(line, "- ") {
		b.WriteString("  ")
	} else {
		b.WriteString("- ")
	}
	b.WriteString(line)
	b.WriteString("\n")
}
