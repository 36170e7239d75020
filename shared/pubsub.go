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
package shared

import (
	"context"

	"github.com/go-viper/mapstructure/v2"
	"github.com/l3montree-dev/policyguard/dtos"
)

type PubSubChannel string

const (
	PipelineCompleted PubSubChannel = "pipelineCompleted"
	PolicyChange      PubSubChannel = "policyChange"
)

type PubSubMessage interface {
	GetChannel() PubSubChannel
	GetPayload() map[string]any
}

type PubSubBroker interface {
	Publish(ctx context.Context, message PubSubMessage) error
	Subscribe(topic PubSubChannel) (<-chan map[string]any, error)
}

// EventMessage carries an event dto. The payload keys are the json names of the dto fields.
type EventMessage struct {
	Channel PubSubChannel
	Event   any
}

func (m EventMessage) GetChannel() PubSubChannel {
	return m.Channel
}

func (m EventMessage) GetPayload() map[string]any {
	payload := map[string]any{}
	if err := EncodeEvent(m.Event, &payload); err != nil {
		// events are flat dtos, encoding only fails for programmer errors
		panic(err)
	}
	return payload
}

func NewPipelineCompletedMessage(event dtos.PipelineCompletedEvent) EventMessage {
	return EventMessage{Channel: PipelineCompleted, Event: event}
}

func NewPolicyChangedMessage(event dtos.PolicyChangedEvent) EventMessage {
	return EventMessage{Channel: PolicyChange, Event: event}
}

// EncodeEvent converts between event dtos and broker payloads in both directions.
// Payloads travel as json, so numbers arrive as float64 and are converted back.
func EncodeEvent(from any, to any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  to,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(from)
}
