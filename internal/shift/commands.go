package shift

import (
	"strings"

	"github.com/lunarlane/punchclock/internal/discord"
)

const (
	commandPunchPanel = "punchpanel"
	commandMyHours    = "myhours"
	commandDeptHours  = "depthours"

	optionDepartment = "department"
	optionWeekOffset = "week_offset"
)

const (
	actionClockIn  = "clockin"
	actionBreak    = "break"
	actionClockOut = "clockout"

	customIDPrefix = "punch"
)

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandPunchPanel,
			Description: "Post the clock-in/break/clock-out button panel for a department.",
			Options: []discord.SlashCommandOption{
				{Name: optionDepartment, Description: "Department role the panel tracks time for.", Type: discord.OptionTypeRole, Required: true},
			},
		},
		{
			Name:        commandMyHours,
			Description: "Show your worked hours: all time, this month, and this week.",
		},
		{
			Name:        commandDeptHours,
			Description: "Show a department's worked hours per member for a week.",
			Options: []discord.SlashCommandOption{
				{Name: optionDepartment, Description: "Department role to report on.", Type: discord.OptionTypeRole, Required: true},
				{Name: optionWeekOffset, Description: "How many weeks back (0 = current week).", Type: discord.OptionTypeInteger},
			},
		},
	}
}

func buttonCustomID(action, departmentID string) string {
	return customIDPrefix + ":" + action + ":" + departmentID
}

// parseButtonCustomID splits "punch:<action>:<departmentID>". Unknown or
// foreign custom ids report ok=false and are ignored by the handler.
func parseButtonCustomID(customID string) (action, departmentID string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[2] == "" {
		return "", "", false
	}
	switch parts[1] {
	case actionClockIn, actionBreak, actionClockOut:
		return parts[1], parts[2], true
	}
	return "", "", false
}

func panelButtons(departmentID string) []discord.Button {
	return []discord.Button{
		{Label: "Clock In", CustomID: buttonCustomID(actionClockIn, departmentID), Style: discord.ButtonStylePrimary},
		{Label: "Break", CustomID: buttonCustomID(actionBreak, departmentID), Style: discord.ButtonStyleSecondary},
		{Label: "Clock Out", CustomID: buttonCustomID(actionClockOut, departmentID), Style: discord.ButtonStyleDanger},
	}
}
