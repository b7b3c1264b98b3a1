package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"akvabot/internal/events"
	"akvabot/internal/metrics"
	"akvabot/internal/stats"
	"akvabot/internal/vk"
)

// PollClient is the long-poll surface of the platform client.
type PollClient interface {
	GetLongPollServer(ctx context.Context) (*vk.LongPollServer, error)
	Poll(ctx context.Context, srv *vk.LongPollServer) (*vk.PollResponse, error)
}

// EventHandler consumes normalized events. Implemented by Router.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev events.Event)
}

// Poller owns the long-poll descriptor and supervises the fetch →
// normalize → route cycle. It is the only writer of the poll cursor.
type Poller struct {
	vk      PollClient
	router  EventHandler
	sender  Sender
	sink    stats.Sink
	logger  *zerolog.Logger
	backoff time.Duration
}

func NewPoller(client PollClient, router EventHandler, sender Sender, sink stats.Sink, logger *zerolog.Logger) *Poller {
	return &Poller{
		vk:      client,
		router:  router,
		sender:  sender,
		sink:    sink,
		logger:  logger,
		backoff: 3 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Failure to acquire the initial
// descriptor is fatal and returned; everything after that is retried.
func (p *Poller) Run(ctx context.Context) error {
	srv, err := p.vk.GetLongPollServer(ctx)
	if err != nil {
		return fmt.Errorf("acquire long poll server: %w", err)
	}
	p.logger.Info().Str("server", srv.Server).Msg("long poll started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		resp, err := p.vk.Poll(ctx, srv)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn().Err(err).Msg("long poll request failed")
			p.sink.LogError(ctx, fmt.Sprintf("long poll request failed: %v", err), stats.ErrorRecord{
				Context: map[string]string{"component": "longpoll"},
			})
			metrics.IncPollFailure()
			if !p.sleep(ctx) {
				return nil
			}
			continue
		}

		// A non-zero failed code invalidates the descriptor; the batch
		// in that response is discarded.
		if resp.Failed != 0 {
			p.logger.Warn().Int("failed", resp.Failed).Msg("long poll descriptor stale, re-acquiring")
			metrics.IncPollRestart()
			srv = p.reacquire(ctx)
			if srv == nil {
				return nil
			}
			continue
		}

		// Advance the cursor before touching updates, so a crash while
		// processing cannot replay the same batch forever.
		if resp.TS != "" {
			srv.TS = resp.TS
		}

		for _, update := range resp.Updates {
			p.handleUpdate(ctx, update)
		}
	}
}

// reacquire fetches a fresh descriptor, retrying with backoff. Returns
// nil only when ctx is cancelled.
func (p *Poller) reacquire(ctx context.Context) *vk.LongPollServer {
	for {
		srv, err := p.vk.GetLongPollServer(ctx)
		if err == nil {
			return srv
		}
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn().Err(err).Msg("descriptor re-acquisition failed")
		if !p.sleep(ctx) {
			return nil
		}
	}
}

func (p *Poller) sleep(ctx context.Context) bool {
	select {
	case <-time.After(p.backoff):
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update vk.Update) {
	requestID := uuid.New().String()
	l := p.logger.With().Str("request_id", requestID).Str("type", update.Type).Logger()
	ctx = l.WithContext(ctx)

	ev, ok := events.Normalize(update)
	if !ok {
		l.Warn().Msg("unrecognized update discarded")
		return
	}

	l.Debug().Int64("user_id", ev.UserID).Str("kind", ev.Kind.String()).Msg("handling event")
	p.process(ctx, ev)
}

// process guards the event boundary: a panic in routing is logged and
// answered with a generic apology, and the loop moves on.
func (p *Poller) process(ctx context.Context, ev events.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zerolog.Ctx(ctx).Error().Interface("panic", rec).Int64("user_id", ev.UserID).Msg("event processing panicked")
			p.sink.LogError(ctx, fmt.Sprintf("event processing panicked: %v", rec), stats.ErrorRecord{
				UserID:  ev.UserID,
				Command: ev.CommandName(),
				Context: map[string]string{"component": "router"},
			})
			p.sender.SendMessage(ctx, ev.UserID, apologyText, nil)
		}
	}()
	p.router.HandleEvent(ctx, ev)
}
