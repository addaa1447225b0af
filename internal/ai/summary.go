package ai

import (
	"context"
	"fmt"
	"strings"

	usecase "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

const summarySystemPrompt = "You are an assistant for a small service business. " +
	"Write a short, friendly daily briefing for the owner based on the " +
	"schedule below. Mention gaps, busy stretches and anything pending. " +
	"Answer in plain text, no markdown."

// SummarizeDay turns a resolved day schedule into an owner-facing
// briefing.
func (c *Client) SummarizeDay(
	ctx context.Context,
	businessName string,
	day usecase.DaySchedule,
) (string, error) {

	var b strings.Builder
	fmt.Fprintf(&b, "Business: %s\nDate: %s\n\n", businessName, day.Date)

	if len(day.Entries) == 0 {
		b.WriteString("No appointments.\n")
	}
	for _, entry := range day.Entries {
		name := entry.Appointment.PrimaryClientName()
		if entry.Appointment.Blocked {
			name = "(blocked)"
		}
		fmt.Fprintf(&b, "- %s (%d min) %s [%s]\n",
			entry.Appointment.Time,
			entry.DurationMin,
			name,
			entry.Appointment.Status,
		)
	}

	return c.Complete(ctx, summarySystemPrompt, b.String())
}
