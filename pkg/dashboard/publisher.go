package dashboard

import (
	"f1telemetrydash/pkg/caster"
	"f1telemetrydash/pkg/pubsub"
)

// Publisher broadcasts payloads to the viewers of a named channel. Each
// payload is encoded once and fanned out without waiting for anyone.
type Publisher struct {
	ps     *pubsub.PubSub[string]
	caster caster.ChannelCaster
}

func NewPublisher(ps *pubsub.PubSub[string]) *Publisher {
	return &Publisher{
		ps:     ps,
		caster: caster.JSONChannelCaster{},
	}
}

func (p *Publisher) Publish(channel string, payload any) error {
	data, err := p.caster.Cast(channel, payload)
	if err != nil {
		return err
	}
	p.ps.Publish(channel, data)
	return nil
}
