package caster

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Message is the frame viewers receive. Type is the channel it was
// published on.
type Message struct {
	Type string `json:"type"`
	Body any    `json:"body,omitempty"`
}

type ChannelCaster interface {
	Cast(channel string, payload any) (string, error)
}

// JSONChannelCaster frames a payload once so the same string can be fanned
// out to every subscriber of the channel.
type JSONChannelCaster struct{}

func (JSONChannelCaster) Cast(channel string, payload any) (string, error) {
	data, err := json.Marshal(Message{Type: channel, Body: payload})
	if err != nil {
		return "", errors.Wrapf(err, "encoding %s message", channel)
	}
	return string(data), nil
}
