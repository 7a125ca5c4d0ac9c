package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunarlane/punchclock/internal/aggregate"
	"github.com/lunarlane/punchclock/internal/timeutil"
)

const (
	messageAlreadyClockedIn = ":warning: **You are already clocked in.** Clock out before starting a new shift."
	messageNotClockedIn     = ":warning: **You are not clocked in.** Press Clock In first."
	messageStoreFailed      = ":warning: **Something went wrong while updating your shift.** Please try again."
	messageQueryFailed      = ":warning: **Something went wrong while computing hours.** Please try again."
	messageNotSupervisor    = ":warning: **This command requires the supervisor role.**"
	messageRoleCheckFailed  = ":warning: **Could not verify your role.** Please try again."
	messageUnknownCommand   = ":warning: **Unknown command.**"
	messagePanelPosted      = ":white_check_mark: Panel posted."
	messagePanelPostFailed  = ":warning: **Could not post the panel in this channel.**"

	messageDeptNoSessions = "No completed shifts in that week."

	panelTimeLayout = "Mon 15:04"
	reportDayLayout = "Jan 2"
)

const (
	colorClockIn  = 0x57F287
	colorBreak    = 0xFEE75C
	colorClockOut = 0xED4245
)

func clockedInMessage(at time.Time) string {
	return fmt.Sprintf(":arrow_forward: **Clocked in** at %s.", at.Format(panelTimeLayout))
}

func breakStartedMessage(at time.Time) string {
	return fmt.Sprintf(":pause_button: **Break started** at %s. Press Break again to resume.", at.Format(panelTimeLayout))
}

func breakEndedMessage(at time.Time, totalBreak time.Duration) string {
	return fmt.Sprintf(":arrow_forward: **Break ended** at %s. Total break this shift: %s.",
		at.Format(panelTimeLayout), timeutil.FormatDuration(totalBreak))
}

func clockedOutMessage(worked, breakTotal time.Duration) string {
	return fmt.Sprintf(":stop_button: **Clocked out.** Worked %s (breaks: %s).",
		timeutil.FormatDuration(worked), timeutil.FormatDuration(breakTotal))
}

func panelContent(roleID string) string {
	return fmt.Sprintf(":clock1: **Time clock — <@&%s>**\nPress a button to clock in, pause, or clock out.", roleID)
}

func myHoursMessage(allTime, month, week time.Duration) string {
	return strings.Join([]string{
		":bar_chart: **Your hours**",
		fmt.Sprintf("This week: %s (%s)", timeutil.FormatDuration(week), timeutil.FormatHours(week)),
		fmt.Sprintf("This month: %s (%s)", timeutil.FormatDuration(month), timeutil.FormatHours(month)),
		fmt.Sprintf("All time: %s (%s)", timeutil.FormatDuration(allTime), timeutil.FormatHours(allTime)),
	}, "\n")
}

func deptHoursMessage(roleLabel string, window timeutil.Range, total time.Duration, totals []aggregate.UserTotal) string {
	lines := []string{
		fmt.Sprintf(":bar_chart: **%s — %s to %s**", roleLabel,
			window.Start.Format(reportDayLayout), window.End.Format(reportDayLayout)),
	}
	if len(totals) == 0 {
		lines = append(lines, messageDeptNoSessions)
		return strings.Join(lines, "\n")
	}
	for i, row := range totals {
		lines = append(lines, fmt.Sprintf("%d. <@%s> — %s (%s)", i+1, row.UserID,
			timeutil.FormatDuration(row.Total), timeutil.FormatHours(row.Total)))
	}
	lines = append(lines, fmt.Sprintf("Total: %s (%s)", timeutil.FormatDuration(total), timeutil.FormatHours(total)))
	return strings.Join(lines, "\n")
}
