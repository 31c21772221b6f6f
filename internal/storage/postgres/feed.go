package postgres

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/storage"
)

// notifyChannel maps a table to its Postgres notification channel
func notifyChannel(table storage.Table) string {
	if table == storage.TableRooms {
		return "planb_rooms"
	}
	return "planb_players"
}

type subscription struct {
	cancel context.CancelFunc
	events chan storage.Event
	once   sync.Once
}

func (sub *subscription) Events() <-chan storage.Event {
	return sub.events
}

func (sub *subscription) Close() {
	sub.once.Do(sub.cancel)
}

// Subscribe registers a change listener for one table. Each subscription
// holds a dedicated connection in LISTEN mode; notifications from writers'
// pg_notify calls are translated into feed events.
func (s *Storage) Subscribe(ctx context.Context, table storage.Table) (storage.Subscription, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	channel := notifyChannel(table)
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		conn.Release()
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		cancel: cancel,
		events: make(chan storage.Event),
	}

	go func() {
		defer close(sub.events)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				// Context cancelled or connection lost; either way the
				// subscription is done
				return
			}

			event := storage.Event{Table: table}
			if table == storage.TableRooms {
				var room model.Room
				if err := json.Unmarshal([]byte(notification.Payload), &room); err != nil {
					continue
				}
				event.Room = &room
			}

			select {
			case sub.events <- event:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}
