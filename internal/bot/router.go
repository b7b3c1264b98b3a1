// Package bot contains the conversation router and the long-poll
// supervisor that feeds it.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"akvabot/internal/aqua"
	"akvabot/internal/commands"
	"akvabot/internal/events"
	"akvabot/internal/session"
	"akvabot/internal/stats"
	"akvabot/internal/vk"
)

// Sender delivers outbound replies. Implemented by the vk client; a
// fake is injected in tests.
type Sender interface {
	SendMessage(ctx context.Context, userID int64, text string, kb *vk.Keyboard) bool
}

// TicketAPI is the ticketing/occupancy collaborator surface the router
// depends on.
type TicketAPI interface {
	GetSessions(ctx context.Context, date string) ([]string, error)
	GetTariffs(ctx context.Context, date string) ([]aqua.Tariff, error)
	CurrentLoad(ctx context.Context) (int, error)
}

// Router advances the per-user dialog state machine and emits replies.
// Dialog state is read from the session store: no selected date means
// idle, a date without a session means a slot is being picked, date
// plus session means a category pick is expected.
type Router struct {
	sender   Sender
	tickets  TicketAPI
	sessions *session.Store
	sink     stats.Sink
	commands *commands.Store
	logger   *zerolog.Logger
}

func NewRouter(
	sender Sender,
	tickets TicketAPI,
	sessions *session.Store,
	sink stats.Sink,
	cmds *commands.Store,
	logger *zerolog.Logger,
) *Router {
	return &Router{
		sender:   sender,
		tickets:  tickets,
		sessions: sessions,
		sink:     sink,
		commands: cmds,
		logger:   logger,
	}
}

// Click payloads carry canonical command names; they route through the
// same branches as the equivalent button label text.
var commandInputs = map[string]string{
	"start":          "начать",
	"tickets":        "билеты",
	"info":           "информация",
	"hours":          "время работы",
	"contacts":       "контакты",
	"back":           "назад",
	"to_sessions":    "🔙 к сеансам",
	"to_start":       "🔙 в начало",
	"load":           "загруженность",
	"category_adult": "взрослые билеты",
	"category_child": "детские билеты",
}

// HandleEvent processes one normalized event end to end. It never
// returns an error: collaborator failures degrade to static replies and
// are recorded in the sink.
func (r *Router) HandleEvent(ctx context.Context, ev events.Event) {
	r.sessions.Touch(ev.UserID)
	r.sink.RecordActivity(ctx, ev.UserID)
	r.sink.RecordCommandUsage(ctx, ev.UserID, ev.CommandName())

	switch ev.Kind {
	case events.KindPermissionGranted:
		r.reply(ctx, ev.UserID, welcomeText, mainMenuKeyboard())
	case events.KindButtonClicked:
		input := ev.CommandName()
		if mapped, ok := commandInputs[input]; ok {
			input = mapped
		}
		r.route(ctx, ev.UserID, input)
	case events.KindMessageReceived:
		r.route(ctx, ev.UserID, ev.Text)
	}
}

func (r *Router) route(ctx context.Context, userID int64, raw string) {
	input := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case input == "/start" || input == "начать" || input == "🚀 начать":
		r.reply(ctx, userID, welcomeText, mainMenuKeyboard())

	case input == "информация" || input == strings.ToLower(btnInfo):
		r.reply(ctx, userID, infoMenuText, infoMenuKeyboard())

	case input == "время работы" || input == strings.ToLower(btnHours):
		r.reply(ctx, userID, workingHoursText, nil)

	case input == "контакты" || input == strings.ToLower(btnContacts):
		r.reply(ctx, userID, contactsText, nil)

	case input == "назад" || input == "🔙 назад":
		r.sessions.Clear(userID)
		r.reply(ctx, userID, mainMenuText, mainMenuKeyboard())

	case input == "🔙 в начало":
		r.sessions.Clear(userID)
		r.reply(ctx, userID, mainMenuText, mainMenuKeyboard())

	case input == "билеты" || input == strings.ToLower(btnTickets):
		r.reply(ctx, userID, pickDateText, dateKeyboard(time.Now()))

	case input == "🔙 к сеансам":
		r.backToSessions(ctx, userID)

	case input == "загруженность" || input == strings.ToLower(btnLoad):
		r.showLoad(ctx, userID)

	case strings.HasPrefix(input, strings.TrimSpace(datePrefix)):
		if !r.pickDate(ctx, userID, input) {
			r.fallback(ctx, userID, raw)
		}

	case strings.HasPrefix(input, strings.TrimSpace(timePrefix)):
		r.pickSession(ctx, userID, input)

	default:
		if category, ok := matchCategory(input); ok {
			r.showTariffs(ctx, userID, category)
			return
		}
		r.fallback(ctx, userID, raw)
	}
}

// pickDate extracts and validates the date token. An unparseable token
// causes no transition; the caller falls through to the generic branch.
func (r *Router) pickDate(ctx context.Context, userID int64, input string) bool {
	date := strings.TrimSpace(strings.TrimPrefix(input, strings.TrimSpace(datePrefix)))
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false
	}

	r.sessions.SetDate(userID, date)
	r.sendSessionList(ctx, userID, date)
	return true
}

// pickSession guards the time pick: without a chosen date the user is
// routed back to the date picker, not an error.
func (r *Router) pickSession(ctx context.Context, userID int64, input string) {
	st := r.sessions.Get(userID)
	if st.SelectedDate == "" {
		r.reply(ctx, userID, pickDateFirstText, dateKeyboard(time.Now()))
		return
	}

	slot := strings.TrimSpace(strings.TrimPrefix(input, strings.TrimSpace(timePrefix)))
	r.sessions.SetSession(userID, slot)
	r.reply(ctx, userID, fmt.Sprintf(pickCategoryText, slot), categoryKeyboard())
}

func (r *Router) backToSessions(ctx context.Context, userID int64) {
	st := r.sessions.Get(userID)
	if st.SelectedDate == "" {
		r.reply(ctx, userID, pickDateFirstText, dateKeyboard(time.Now()))
		return
	}
	// Re-entering the slot list drops any picked session.
	r.sessions.SetDate(userID, st.SelectedDate)
	r.sendSessionList(ctx, userID, st.SelectedDate)
}

func (r *Router) sendSessionList(ctx context.Context, userID int64, date string) {
	slots, err := r.tickets.GetSessions(ctx, date)
	if err != nil {
		r.degrade(ctx, userID, "fetch sessions failed", err, map[string]string{
			"component": "ticketing",
			"date":      date,
		})
		return
	}
	if len(slots) == 0 {
		r.reply(ctx, userID, fmt.Sprintf(noSessionsText, date), dateKeyboard(time.Now()))
		return
	}

	var sb strings.Builder
	for _, slot := range slots {
		sb.WriteString("• " + slot + "\n")
	}
	r.reply(ctx, userID, fmt.Sprintf(pickSessionText, date, sb.String()), sessionKeyboard(slots))
}

func (r *Router) showTariffs(ctx context.Context, userID int64, category Category) {
	st := r.sessions.Get(userID)
	if st.SelectedDate == "" || st.SelectedSession == "" {
		r.reply(ctx, userID, pickDateAndSessionFirstText, dateKeyboard(time.Now()))
		return
	}

	tariffs, err := r.tickets.GetTariffs(ctx, st.SelectedDate)
	if err != nil {
		r.degrade(ctx, userID, "fetch tariffs failed", err, map[string]string{
			"component": "ticketing",
			"date":      st.SelectedDate,
			"session":   st.SelectedSession,
			"category":  string(category),
		})
		return
	}

	filtered := filterTariffs(tariffs, category)
	if len(filtered) == 0 {
		r.reply(ctx, userID, noTariffsText, categoryKeyboard())
		return
	}
	text := fmt.Sprintf(tariffsText, st.SelectedDate, st.SelectedSession, formatTariffs(filtered))
	r.reply(ctx, userID, text, purchaseKeyboard())
}

func (r *Router) showLoad(ctx context.Context, userID int64) {
	percent, err := r.tickets.CurrentLoad(ctx)
	if err != nil {
		r.degrade(ctx, userID, "fetch occupancy failed", err, map[string]string{
			"component": "occupancy",
		})
		return
	}
	r.reply(ctx, userID, formatLoad(percent), nil)
}

// fallback consults the admin-managed command table before giving up.
func (r *Router) fallback(ctx context.Context, userID int64, raw string) {
	if r.commands != nil {
		if cmd, ok := r.commands.Match(raw); ok {
			r.sink.RecordCommandUsage(ctx, userID, cmd.Name)
			r.reply(ctx, userID, cmd.Response, cmd.ParseKeyboard())
			return
		}
	}
	r.reply(ctx, userID, notUnderstoodText, nil)
}

// degrade records the collaborator failure and serves the static
// try-again reply. Collaborator errors never escape event processing.
func (r *Router) degrade(ctx context.Context, userID int64, msg string, err error, errCtx map[string]string) {
	zerolog.Ctx(ctx).Error().Err(err).Fields(map[string]any{"context": errCtx}).Msg(msg)
	r.sink.LogError(ctx, fmt.Sprintf("%s: %v", msg, err), stats.ErrorRecord{
		UserID:  userID,
		Context: errCtx,
	})
	r.reply(ctx, userID, serviceUnavailableText, nil)
}

func (r *Router) reply(ctx context.Context, userID int64, text string, kb *vk.Keyboard) {
	if !r.sender.SendMessage(ctx, userID, text, kb) {
		zerolog.Ctx(ctx).Warn().Int64("user_id", userID).Msg("reply not delivered")
	}
}
