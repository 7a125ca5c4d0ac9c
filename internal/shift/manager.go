package shift

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lunarlane/punchclock/internal/aggregate"
	"github.com/lunarlane/punchclock/internal/config"
	"github.com/lunarlane/punchclock/internal/discord"
	"github.com/lunarlane/punchclock/internal/notify"
	"github.com/lunarlane/punchclock/internal/repository"
	"github.com/lunarlane/punchclock/internal/timeutil"
)

const notifyTimeout = 10 * time.Second

// Manager drives the per-session lifecycle: not clocked in -> clocked in ->
// on break -> clocked in -> clocked out. Every operation takes an explicit
// timestamp so state transitions are deterministic functions of
// (state, event, timestamp).
type Manager struct {
	cfg       *config.Config
	repo      repository.Repository
	discord   discord.Client
	agg       *aggregate.Engine
	sink      notify.Sink
	loc       *time.Location
	botUserID string

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func NewManager(cfg *config.Config, repo repository.Repository, dc discord.Client, agg *aggregate.Engine, sink notify.Sink) *Manager {
	loc, err := time.LoadLocation(cfg.ShiftTimezone)
	if err != nil {
		// Config validation already checked the timezone; fall back anyway.
		loc = time.UTC
	}
	return &Manager{
		cfg:      cfg,
		repo:     repo,
		discord:  dc,
		agg:      agg,
		sink:     sink,
		loc:      loc,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) SetBotUserID(id string) {
	m.botUserID = id
}

// lockKey serializes the load-mutate-save cycle per (guild, user, department)
// key: two near-simultaneous clock-ins for the same key must not both pass
// the active-session check.
func (m *Manager) lockKey(guildID, userID, departmentID string) func() {
	key := guildID + ":" + userID + ":" + departmentID
	m.mu.Lock()
	l, ok := m.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		m.keyLocks[key] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// ClockIn opens a session for the key. Returns the user-facing reply; a
// rejected transition (already clocked in) is a reply, not an error.
func (m *Manager) ClockIn(ctx context.Context, guildID, userID, departmentID string, at time.Time) (string, error) {
	unlock := m.lockKey(guildID, userID, departmentID)
	defer unlock()

	active, err := m.repo.FindActiveSession(ctx, guildID, userID, departmentID)
	if err != nil {
		return "", fmt.Errorf("failed to look up active session: %w", err)
	}
	if active != nil {
		return messageAlreadyClockedIn, nil
	}

	created, err := m.repo.CreateSession(ctx, repository.CreateSessionInput{
		GuildID:      guildID,
		UserID:       userID,
		DepartmentID: departmentID,
		ClockIn:      at,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	slog.Info("clocked in", "session_id", created.ID, "guild_id", guildID, "user_id", userID, "department_id", departmentID)

	m.emit(notify.Event{
		Title:        "Clock In",
		Description:  fmt.Sprintf("<@%s> clocked in at %s.", userID, at.In(m.loc).Format(panelTimeLayout)),
		Color:        colorClockIn,
		ActorID:      userID,
		DepartmentID: departmentID,
		OccurredAt:   at,
	})
	return clockedInMessage(at.In(m.loc)), nil
}

// ToggleBreak pauses a running session or resumes a paused one.
func (m *Manager) ToggleBreak(ctx context.Context, guildID, userID, departmentID string, at time.Time) (string, error) {
	unlock := m.lockKey(guildID, userID, departmentID)
	defer unlock()

	active, err := m.repo.FindActiveSession(ctx, guildID, userID, departmentID)
	if err != nil {
		return "", fmt.Errorf("failed to look up active session: %w", err)
	}
	if active == nil {
		return messageNotClockedIn, nil
	}

	if active.OnBreak {
		updated, err := m.repo.EndBreak(ctx, active.ID, at)
		if err != nil {
			return "", fmt.Errorf("failed to end break: %w", err)
		}
		slog.Info("break ended", "session_id", active.ID, "guild_id", guildID, "user_id", userID, "total_break", updated.TotalBreak)
		m.emit(notify.Event{
			Title:        "Break Ended",
			Description:  fmt.Sprintf("<@%s> resumed work. Total break this shift: %s.", userID, timeutil.FormatDuration(updated.TotalBreak)),
			Color:        colorBreak,
			ActorID:      userID,
			DepartmentID: departmentID,
			OccurredAt:   at,
		})
		return breakEndedMessage(at.In(m.loc), updated.TotalBreak), nil
	}

	if _, err := m.repo.StartBreak(ctx, active.ID, at); err != nil {
		return "", fmt.Errorf("failed to start break: %w", err)
	}
	slog.Info("break started", "session_id", active.ID, "guild_id", guildID, "user_id", userID)
	m.emit(notify.Event{
		Title:        "Break Started",
		Description:  fmt.Sprintf("<@%s> went on break at %s.", userID, at.In(m.loc).Format(panelTimeLayout)),
		Color:        colorBreak,
		ActorID:      userID,
		DepartmentID: departmentID,
		OccurredAt:   at,
	})
	return breakStartedMessage(at.In(m.loc)), nil
}

// ClockOut closes the active session, finalizing a running break first.
func (m *Manager) ClockOut(ctx context.Context, guildID, userID, departmentID string, at time.Time) (string, error) {
	unlock := m.lockKey(guildID, userID, departmentID)
	defer unlock()

	active, err := m.repo.FindActiveSession(ctx, guildID, userID, departmentID)
	if err != nil {
		return "", fmt.Errorf("failed to look up active session: %w", err)
	}
	if active == nil {
		return messageNotClockedIn, nil
	}

	res, err := m.repo.CloseSession(ctx, repository.CloseSessionInput{SessionID: active.ID, ClockOut: at})
	if err != nil {
		// ErrSessionNotFound here means the store lost a session we just
		// looked up; never report success with a fabricated duration.
		return "", fmt.Errorf("failed to close session %s: %w", active.ID, err)
	}
	slog.Info("clocked out", "session_id", active.ID, "guild_id", guildID, "user_id", userID, "worked", res.Worked, "break_total", res.BreakTotal)

	m.emit(notify.Event{
		Title: "Clock Out",
		Description: fmt.Sprintf("<@%s> clocked out. Worked %s, breaks %s.",
			userID, timeutil.FormatDuration(res.Worked), timeutil.FormatDuration(res.BreakTotal)),
		Color:        colorClockOut,
		ActorID:      userID,
		DepartmentID: departmentID,
		OccurredAt:   at,
	})
	return clockedOutMessage(res.Worked, res.BreakTotal), nil
}

// MyHours reports the caller's totals for the current week, current month,
// and all time.
func (m *Manager) MyHours(ctx context.Context, guildID, userID string, now time.Time) (string, error) {
	allTime, err := m.agg.UserTotalAllTime(ctx, guildID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to compute all-time total: %w", err)
	}
	month, err := m.agg.UserTotalInRange(ctx, guildID, userID, timeutil.MonthRange(now, m.loc))
	if err != nil {
		return "", fmt.Errorf("failed to compute month total: %w", err)
	}
	week, err := m.agg.UserTotalInRange(ctx, guildID, userID, timeutil.WeekRange(now, m.loc))
	if err != nil {
		return "", fmt.Errorf("failed to compute week total: %w", err)
	}
	return myHoursMessage(allTime, month, week), nil
}

// DepartmentHours reports a per-member breakdown for the week weekOffset
// weeks before the current one.
func (m *Manager) DepartmentHours(ctx context.Context, guildID, departmentID string, weekOffset int, now time.Time) (string, error) {
	window := timeutil.WeekRangeOffset(now, m.loc, weekOffset)
	totals, err := m.agg.DepartmentTotalsByUser(ctx, guildID, departmentID, window)
	if err != nil {
		return "", fmt.Errorf("failed to compute department breakdown: %w", err)
	}
	total, err := m.agg.DepartmentTotalInRange(ctx, guildID, departmentID, window)
	if err != nil {
		return "", fmt.Errorf("failed to compute department total: %w", err)
	}
	roleLabel := "Department"
	if name, err := m.discord.RoleName(guildID, departmentID); err == nil && name != "" {
		roleLabel = name
	}
	return deptHoursMessage(roleLabel, window, total, totals), nil
}

// HandleComponent routes a button press into the state machine.
func (m *Manager) HandleComponent(ev discord.ComponentEvent) {
	if ev.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if ev.UserID == m.botUserID {
		return
	}
	action, departmentID, ok := parseButtonCustomID(ev.CustomID)
	if !ok {
		return
	}

	ctx := context.Background()
	var reply string
	var err error
	switch action {
	case actionClockIn:
		reply, err = m.ClockIn(ctx, ev.GuildID, ev.UserID, departmentID, ev.ReceivedAt)
	case actionBreak:
		reply, err = m.ToggleBreak(ctx, ev.GuildID, ev.UserID, departmentID, ev.ReceivedAt)
	case actionClockOut:
		reply, err = m.ClockOut(ctx, ev.GuildID, ev.UserID, departmentID, ev.ReceivedAt)
	}
	if err != nil {
		slog.Error("shift action failed", "error", err, "action", action, "guild_id", ev.GuildID, "user_id", ev.UserID, "department_id", departmentID)
		reply = messageStoreFailed
	}
	if err := ev.RespondEphemeral(reply); err != nil {
		slog.Error("failed to respond to component interaction", "error", err, "action", action, "user_id", ev.UserID)
	}
}

// HandleSlashCommand routes query and panel commands.
func (m *Manager) HandleSlashCommand(ev discord.SlashCommandEvent) {
	if ev.GuildID != m.cfg.DiscordGuildID {
		return
	}

	var reply string
	switch ev.CommandName {
	case commandPunchPanel:
		reply = m.handlePunchPanel(ev)
	case commandMyHours:
		reply = m.handleMyHours(ev)
	case commandDeptHours:
		reply = m.handleDeptHours(ev)
	default:
		reply = messageUnknownCommand
	}
	if err := ev.RespondEphemeral(reply); err != nil {
		slog.Error("failed to respond to slash interaction", "error", err, "command", ev.CommandName, "user_id", ev.UserID)
	}
}

func (m *Manager) handlePunchPanel(ev discord.SlashCommandEvent) string {
	if reply, ok := m.requireSupervisor(ev.GuildID, ev.UserID); !ok {
		return reply
	}
	departmentID := ev.RoleOptions[optionDepartment]
	if departmentID == "" {
		return messageUnknownCommand
	}
	err := m.discord.SendButtonPanel(discord.PanelMessage{
		ChannelID: ev.ChannelID,
		Content:   panelContent(departmentID),
		Buttons:   panelButtons(departmentID),
	})
	if err != nil {
		slog.Error("failed to post punch panel", "error", err, "channel_id", ev.ChannelID, "department_id", departmentID)
		return messagePanelPostFailed
	}
	slog.Info("punch panel posted", "channel_id", ev.ChannelID, "department_id", departmentID, "user_id", ev.UserID)
	return messagePanelPosted
}

func (m *Manager) handleMyHours(ev discord.SlashCommandEvent) string {
	reply, err := m.MyHours(context.Background(), ev.GuildID, ev.UserID, ev.ReceivedAt)
	if err != nil {
		slog.Error("failed to compute user hours", "error", err, "guild_id", ev.GuildID, "user_id", ev.UserID)
		return messageQueryFailed
	}
	return reply
}

func (m *Manager) handleDeptHours(ev discord.SlashCommandEvent) string {
	if reply, ok := m.requireSupervisor(ev.GuildID, ev.UserID); !ok {
		return reply
	}
	departmentID := ev.RoleOptions[optionDepartment]
	if departmentID == "" {
		return messageUnknownCommand
	}
	weekOffset := int(ev.IntOptions[optionWeekOffset])
	reply, err := m.DepartmentHours(context.Background(), ev.GuildID, departmentID, weekOffset, ev.ReceivedAt)
	if err != nil {
		slog.Error("failed to compute department hours", "error", err, "guild_id", ev.GuildID, "department_id", departmentID)
		return messageQueryFailed
	}
	return reply
}

// requireSupervisor applies the single role check. An empty configured role
// id disables the check entirely.
func (m *Manager) requireSupervisor(guildID, userID string) (string, bool) {
	if m.cfg.DiscordSupervisorRoleID == "" {
		return "", true
	}
	has, err := m.discord.MemberHasRole(guildID, userID, m.cfg.DiscordSupervisorRoleID)
	if err != nil {
		slog.Error("supervisor role check failed", "error", err, "guild_id", guildID, "user_id", userID)
		return messageRoleCheckFailed, false
	}
	if !has {
		return messageNotSupervisor, false
	}
	return "", true
}

// emit forwards a transition notification to the sink on a detached
// goroutine. Delivery failures are logged and never affect the transition.
func (m *Manager) emit(event notify.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := m.sink.Send(ctx, event); err != nil {
			slog.Error("failed to deliver shift notification", "error", err, "title", event.Title, "actor_id", event.ActorID)
		}
	}()
}
