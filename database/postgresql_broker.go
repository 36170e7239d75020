// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/lib/pq"
)

type PostgreSQLMessage struct {
	ID        string               `json:"id"`
	Channel   shared.PubSubChannel `json:"topic"`
	Payload   map[string]any       `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
	SenderID  string               `json:"sender_id,omitempty"`
}

func (m PostgreSQLMessage) GetChannel() shared.PubSubChannel {
	return m.Channel
}

func (m PostgreSQLMessage) GetPayload() map[string]any {
	return m.Payload
}

type listeningConnection struct {
	conn        *pgxpool.Conn
	subscribers []chan map[string]any
}

// PostgreSQLBroker implements shared.PubSubBroker using PostgreSQL LISTEN/NOTIFY.
// Pipeline completion events are delivered to every worker listening on the channel.
type PostgreSQLBroker struct {
	db                       *pgxpool.Pool
	subscribers              map[shared.PubSubChannel]*listeningConnection
	subscribeMux             sync.RWMutex
	wg                       sync.WaitGroup
	cancel                   context.CancelFunc
	ctx                      context.Context
	ID                       string
}

func NewPostgreSQLBroker(db *pgxpool.Pool) *PostgreSQLBroker {
	ctx, cancel := context.WithCancel(context.Background())
	return &PostgreSQLBroker{
		db:          db,
		subscribers: make(map[shared.PubSubChannel]*listeningConnection),
		ID:          uuid.New().String(),
		ctx:         ctx,
		cancel:      cancel,
		// a worker which ingests a report evaluates the pipeline itself as well
	}
}

func (b *PostgreSQLBroker) Publish(ctx context.Context, message shared.PubSubMessage) error {
	topic := message.GetChannel()

	pgMessage := PostgreSQLMessage{
		ID:        uuid.New().String(),
		Channel:   topic,
		Payload:   message.GetPayload(),
		Timestamp: time.Now(),
		SenderID:  b.ID,
	}

	messageJSON, err := json.Marshal(pgMessage)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// pg_notify takes the payload as a bind parameter, no quoting needed
	if _, err := b.db.Exec(ctx, "SELECT pg_notify($1, $2)", string(topic), string(messageJSON)); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	slog.Debug("message published", "topic", topic, "messageID", pgMessage.ID)
	return nil
}

func (b *PostgreSQLBroker) Subscribe(topic shared.PubSubChannel) (<-chan map[string]any, error) {
	b.subscribeMux.Lock()
	defer b.subscribeMux.Unlock()

	ch := make(chan map[string]any, 100)

	if listening, exists := b.subscribers[topic]; exists {
		listening.subscribers = append(listening.subscribers, ch)
		return ch, nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(b.ctx, 30*time.Second)
	defer cancel()
	conn, err := b.db.Acquire(ctxWithTimeout)
	if err != nil {
		close(ch)
		return nil, fmt.Errorf("failed to acquire connection for listening: %w", err)
	}
	if _, err = conn.Exec(ctxWithTimeout, "LISTEN "+pq.QuoteIdentifier(string(topic))); err != nil {
		conn.Release()
		close(ch)
		return nil, fmt.Errorf("failed to listen on topic %s: %w", topic, err)
	}

	b.subscribers[topic] = &listeningConnection{
		conn:        conn,
		subscribers: []chan map[string]any{ch},
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.processMessages(topic, conn)
	}()

	return ch, nil
}

func (b *PostgreSQLBroker) processMessages(topic shared.PubSubChannel, conn *pgxpool.Conn) {
	defer b.closeTopic(topic)
	for {
		notification, err := conn.Conn().WaitForNotification(b.ctx)
		if err != nil {
			if b.ctx.Err() == nil {
				monitoring.Alert("could not listen for notifications from PostgreSQL broker", err)
			}
			return
		}
		if notification == nil || notification.Channel != string(topic) {
			continue
		}

		var message PostgreSQLMessage
		if err := json.Unmarshal([]byte(notification.Payload), &message); err != nil {
			slog.Error("failed to unmarshal message", "err", err, "payload", notification.Payload)
			continue
		}

		b.subscribeMux.RLock()
		listening, exists := b.subscribers[topic]
		var subscribers []chan map[string]any
		if exists {
			subscribers = listening.subscribers
		}
		b.subscribeMux.RUnlock()

		for _, subscriber := range subscribers {
			select {
			case subscriber <- message.Payload:
			default:
				// the event is lost for this subscriber. A later pipeline or a manual evaluate catches up.
				slog.Warn("subscriber channel full, dropping message", "topic", topic, "messageID", message.ID)
			}
		}

		slog.Debug("message distributed", "topic", topic, "messageID", message.ID, "subscribers", len(subscribers))
	}
}

func (b *PostgreSQLBroker) closeTopic(topic shared.PubSubChannel) {
	b.subscribeMux.Lock()
	defer b.subscribeMux.Unlock()
	listening, exists := b.subscribers[topic]
	if !exists {
		return
	}
	listening.conn.Release()
	for _, ch := range listening.subscribers {
		close(ch)
	}
	delete(b.subscribers, topic)
}

// Close stops listening and closes every subscriber channel.
func (b *PostgreSQLBroker) Close() {
	b.cancel()
	b.wg.Wait()
}

// IsHealthy reports whether the broker is running and still listens on every subscribed topic.
// Listening connections are closed when they fail, so a failed topic disappears from the map.
func (b *PostgreSQLBroker) IsHealthy(expected ...shared.PubSubChannel) bool {
	if b.ctx.Err() != nil {
		return false
	}
	b.subscribeMux.RLock()
	defer b.subscribeMux.RUnlock()
	for _, topic := range expected {
		if _, ok := b.subscribers[topic]; !ok {
			slog.Error("listening connection is gone", "topic", topic)
			return false
		}
	}
	return true
}

func (b *PostgreSQLBroker) GetActiveTopics() []shared.PubSubChannel {
	b.subscribeMux.RLock()
	defer b.subscribeMux.RUnlock()

	topics := make([]shared.PubSubChannel, 0, len(b.subscribers))
	for topic := range b.subscribers {
		topics = append(topics, topic)
	}
	return topics
}
