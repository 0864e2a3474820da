package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pagepulse/pagepulse/internal/logging"
)

const ChannelName = "pagepulse_events"

// Event kinds broadcast to dashboards.
const (
	EventVisit      = "visit"
	EventLead       = "lead"
	EventScroll     = "scroll"
	EventConversion = "conversion"
)

type EventPayload struct {
	Type      string    `json:"type"`
	VisitID   int64     `json:"visit_id,omitempty"`
	LeadID    int64     `json:"lead_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Device    string    `json:"device,omitempty"`
	City      string    `json:"city,omitempty"`
	Milestone int       `json:"milestone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotifyEvent publishes an event through pg_notify. Failures are logged
// and swallowed; event delivery never blocks request handling.
func NotifyEvent(ctx context.Context, db *sql.DB, payload EventPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.L().Warn("failed to marshal realtime payload", zap.Error(err))
		return
	}

	if _, err := db.ExecContext(ctx, "SELECT pg_notify($1, $2)", ChannelName, string(data)); err != nil {
		logging.L().Warn("failed to send realtime notification", zap.Error(err))
	}
}

// StartListener subscribes to the event channel and forwards payloads
// to the hub until ctx is cancelled.
func StartListener(ctx context.Context, databaseURL string, hub *Hub) error {
	listener := pq.NewListener(databaseURL, 5*time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		if err != nil {
			logging.L().Warn("realtime listener event", zap.Int("event", int(event)), zap.Error(err))
		}
	})

	if err := listener.Listen(ChannelName); err != nil {
		return err
	}

	go func() {
		defer func() {
			_ = listener.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					continue
				}
				hub.Broadcast([]byte(n.Extra))
			case <-time.After(time.Minute):
				if err := listener.Ping(); err != nil {
					logging.L().Warn("realtime listener ping failed", zap.Error(err))
				}
			}
		}
	}()

	return nil
}
