package risk

import (
	"errors"
	"fmt"
	"math"
)

// Clamp records which side of the envelope, if any, bounded a return.
type Clamp int

const (
	ClampNone Clamp = iota
	ClampStopLoss
	ClampTakeProfit
)

func (c Clamp) String() string {
	switch c {
	case ClampStopLoss:
		return "stop-loss"
	case ClampTakeProfit:
		return "take-profit"
	default:
		return ""
	}
}

// ErrInvalidEnvelope is returned by Validate.
var ErrInvalidEnvelope = errors.New("invalid risk envelope")

// Envelope bounds per-period returns. StopLoss is a negative fraction
// (-0.05 is a 5% floor) and TakeProfit a positive one (0.10 caps at 10%).
type Envelope struct {
	StopLoss   float64 `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit float64 `json:"take_profit" yaml:"take_profit"`
}

// DefaultEnvelope is the -5% / +10% envelope.
func DefaultEnvelope() Envelope {
	return Envelope{StopLoss: -0.05, TakeProfit: 0.10}
}

func (e Envelope) Validate() error {
	if math.IsNaN(e.StopLoss) || math.IsNaN(e.TakeProfit) {
		return fmt.Errorf("%w: bounds must be numbers", ErrInvalidEnvelope)
	}
	if e.StopLoss >= 0 {
		return fmt.Errorf("%w: stop_loss %.4f must be negative", ErrInvalidEnvelope, e.StopLoss)
	}
	if e.TakeProfit <= 0 {
		return fmt.Errorf("%w: take_profit %.4f must be positive", ErrInvalidEnvelope, e.TakeProfit)
	}
	if e.StopLoss >= e.TakeProfit {
		return fmt.Errorf("%w: stop_loss %.4f must be below take_profit %.4f",
			ErrInvalidEnvelope, e.StopLoss, e.TakeProfit)
	}
	return nil
}

// Clamp bounds r into [StopLoss, TakeProfit]. The stop-loss test runs first,
// so a return sitting exactly on the floor is always a stop-loss.
func (e Envelope) Clamp(r float64) (float64, Clamp) {
	if r <= e.StopLoss {
		return e.StopLoss, ClampStopLoss
	}
	if r >= e.TakeProfit {
		return e.TakeProfit, ClampTakeProfit
	}
	return r, ClampNone
}
