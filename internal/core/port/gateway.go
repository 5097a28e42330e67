package port

import (
	"context"

	"github.com/berfenger/salus2mqtt/pkg/it600"
)

// GatewayClient is the part of the gateway client the bridge drives.
type GatewayClient interface {
	Connect(ctx context.Context) (string, error)
	PollStatus(ctx context.Context) error
	Snapshot() it600.Snapshot

	SetClimateTemperature(ctx context.Context, id string, temperature float64) error
	SetClimateMode(ctx context.Context, id string, mode it600.HVACMode) error
	SetClimatePreset(ctx context.Context, id string, preset it600.PresetMode) error
	SetClimateFanMode(ctx context.Context, id string, mode it600.FanMode) error
	TurnOnSwitch(ctx context.Context, id string) error
	TurnOffSwitch(ctx context.Context, id string) error
	SetCoverPosition(ctx context.Context, id string, position int) error
	OpenCover(ctx context.Context, id string) error
	CloseCover(ctx context.Context, id string) error
}

var _ GatewayClient = (*it600.Gateway)(nil)
