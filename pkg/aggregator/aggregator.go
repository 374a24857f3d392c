package aggregator

import (
	"context"
	"fmt"
	"log"
	"net"

	"f1telemetrydash/pkg/helper"
	"f1telemetrydash/pkg/model"
	"f1telemetrydash/pkg/packet"
	"f1telemetrydash/pkg/record"
	"github.com/pkg/errors"
)

const (
	UpdateChannel       = "update"
	packetChannelPrefix = "packet_"
)

var (
	ErrCarIndex       = errors.New("car index out of range")
	ErrUnexpectedType = errors.New("unexpected packet type for tag")
)

// PacketChannel is the channel a decoded packet is mirrored on.
func PacketChannel(id uint8) string {
	return fmt.Sprintf("%s%d", packetChannelPrefix, id)
}

// Tags are the packet ids the aggregator extracts from.
type Tags struct {
	Session   uint8
	LapData   uint8
	Telemetry uint8
	Status    uint8
	Damage    uint8
}

func DefaultTags() Tags {
	return Tags{
		Session:   1,
		LapData:   2,
		Telemetry: 6,
		Status:    7,
		Damage:    9,
	}
}

// Layouts returns the decoder table matching the tags.
func (t Tags) Layouts() map[uint8]packet.Layout {
	return map[uint8]packet.Layout{
		t.Session:   packet.SessionLayout,
		t.LapData:   packet.LapDataLayout,
		t.Telemetry: packet.CarTelemetryLayout,
		t.Status:    packet.CarStatusLayout,
		t.Damage:    packet.CarDamageLayout,
	}
}

type Publisher interface {
	Publish(channel string, payload any) error
}

type Notifier interface {
	Notify(ctx context.Context, subject, message string)
}

// Source yields decoded packets, blocking until one is available.
type Source interface {
	Get(ctx context.Context) (packet.Packet, error)
}

type Aggregator struct {
	tags        Tags
	state       *model.State
	publisher   Publisher
	notifier    Notifier
	ersCapacity float64
	aheadMode   ChangeDetector
}

func New(tags Tags, state *model.State, publisher Publisher, notifier Notifier) *Aggregator {
	return &Aggregator{
		tags:        tags,
		state:       state,
		publisher:   publisher,
		notifier:    notifier,
		ersCapacity: helper.ERSCapacityJoules,
	}
}

func (a *Aggregator) State() *model.State {
	return a.state
}

// Run processes packets from src until ctx is cancelled or src reports its
// socket closed. Every other error only abandons the current packet.
func (a *Aggregator) Run(ctx context.Context, src Source) error {
	for {
		p, err := src.Get(ctx)
		if ctx.Err() != nil {
			log.Println("telemetry listener stopped")
			return nil
		}
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("Error reading packet: %s\n", err.Error())
			continue
		}
		if err := a.Process(ctx, p); err != nil {
			log.Printf("Error processing packet %d: %s\n", p.Header().PacketID, err.Error())
		}
	}
}

// Process classifies p, merges what it carries into the state and publishes
// the whole state. On error the state is left untouched and nothing is
// published on the update channel.
func (a *Aggregator) Process(ctx context.Context, p packet.Packet) error {
	h := p.Header()
	a.publish(PacketChannel(h.PacketID), p.Map())

	ex, err := a.extract(p)
	if err != nil {
		return err
	}
	if ex.values != nil {
		if ignored := a.state.Merge(ex.values); len(ignored) > 0 {
			log.Printf("Ignoring undeclared state keys: %v\n", ignored)
		}
	}
	if ex.aheadDeployMode != nil {
		a.observeAheadDeployMode(ctx, ex.aheadDeployMode)
	}

	a.publish(UpdateChannel, a.state.Snapshot())
	return nil
}

type extraction struct {
	values          model.Update
	aheadDeployMode any
}

func (a *Aggregator) extract(p packet.Packet) (extraction, error) {
	h := p.Header()
	own := h.PlayerCarIndex
	ahead := AheadIndex(own)

	switch h.PacketID {
	case a.tags.Telemetry:
		u, err := a.extractPerCar(p, telemetryFields, own, ahead)
		return extraction{values: u}, err
	case a.tags.Status:
		pc, err := perCar(p)
		if err != nil {
			return extraction{}, err
		}
		aheadCar, err := car(pc, ahead)
		if err != nil {
			return extraction{}, err
		}
		u, err := a.extractPerCar(p, statusFields(a.ersCapacity), own, ahead)
		if err != nil {
			return extraction{}, err
		}
		return extraction{values: u, aheadDeployMode: record.Lookup(aheadCar, ersDeployModeNames, nil)}, nil
	case a.tags.Damage:
		u, err := a.extractPerCar(p, damageFields, own, ahead)
		return extraction{values: u}, err
	case a.tags.LapData:
		u, err := a.extractPerCar(p, lapDataFields, own, ahead)
		return extraction{values: u}, err
	case a.tags.Session:
		s, ok := p.(*packet.Session)
		if !ok {
			return extraction{}, errors.Wrapf(ErrUnexpectedType, "tag %d carries %T", h.PacketID, p)
		}
		return extraction{values: extractCars(sessionFields, s.Data, nil)}, nil
	}
	return extraction{}, nil
}

func (a *Aggregator) extractPerCar(p packet.Packet, specs []fieldSpec, own, ahead int) (model.Update, error) {
	pc, err := perCar(p)
	if err != nil {
		return nil, err
	}
	ownCar, err := car(pc, own)
	if err != nil {
		return nil, err
	}
	aheadCar, err := car(pc, ahead)
	if err != nil {
		return nil, err
	}
	return extractCars(specs, ownCar, aheadCar), nil
}

func (a *Aggregator) observeAheadDeployMode(ctx context.Context, mode any) {
	prev, changed := a.aheadMode.Observe(mode)
	if !changed {
		return
	}
	message := fmt.Sprintf("ERS deploy mode of car ahead: %s -> %s", helper.ERSDeployModeName(prev), helper.ERSDeployModeName(mode))
	log.Println(message)
	if a.notifier != nil {
		a.notifier.Notify(ctx, "ERS deploy mode changed", message)
	}
}

func (a *Aggregator) publish(channel string, payload any) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(channel, payload); err != nil {
		log.Printf("Error publishing to %s: %s\n", channel, err.Error())
	}
}

// AheadIndex is the slot treated as the car ahead of slot i.
func AheadIndex(i int) int {
	if i <= 0 {
		return 0
	}
	return i - 1
}

func perCar(p packet.Packet) (packet.PerCar, error) {
	pc, ok := p.(packet.PerCar)
	if !ok {
		return nil, errors.Wrapf(ErrUnexpectedType, "tag %d carries %T", p.Header().PacketID, p)
	}
	return pc, nil
}

func car(p packet.PerCar, i int) (record.Record, error) {
	cars := p.Cars()
	if i < 0 || i >= len(cars) {
		return nil, errors.Wrapf(ErrCarIndex, "slot %d of %d", i, len(cars))
	}
	if cars[i] == nil {
		return nil, errors.Errorf("slot %d has no record", i)
	}
	return cars[i], nil
}
