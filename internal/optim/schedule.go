package optim

import "math"

// Schedule computes the learning rate for a given epoch. The training
// loop applies it with SetLR at the start of each epoch, so epoch 0
// always trains at the schedule's initial rate.
type Schedule interface {
	// LR returns the learning rate for the given zero-based epoch.
	LR(epoch int) float32
}

// ConstantSchedule keeps the learning rate fixed.
type ConstantSchedule struct {
	Rate float32
}

// NewConstant creates a schedule that always returns rate.
func NewConstant(rate float32) *ConstantSchedule {
	return &ConstantSchedule{Rate: rate}
}

// LR returns the constant rate.
func (s *ConstantSchedule) LR(int) float32 {
	return s.Rate
}

// StepDecaySchedule multiplies the rate by Factor every Every epochs:
//
//	lr = initial * factor^(epoch / every)
type StepDecaySchedule struct {
	Initial float32
	Factor  float32
	Every   int
}

// NewStepDecay creates a step decay schedule. every must be positive and
// factor is typically in (0, 1).
func NewStepDecay(initial, factor float32, every int) *StepDecaySchedule {
	if every <= 0 {
		panic("StepDecay: every must be positive")
	}
	return &StepDecaySchedule{Initial: initial, Factor: factor, Every: every}
}

// LR returns the decayed rate for the given epoch.
func (s *StepDecaySchedule) LR(epoch int) float32 {
	steps := epoch / s.Every
	return s.Initial * float32(math.Pow(float64(s.Factor), float64(steps)))
}

// ExponentialDecaySchedule decays the rate by a fixed factor per epoch:
//
//	lr = initial * decay^epoch
//
// A decay of 1 leaves the rate constant.
type ExponentialDecaySchedule struct {
	Initial float32
	Decay   float32
}

// NewExponentialDecay creates an exponential decay schedule. decay must
// be in (0, 1].
func NewExponentialDecay(initial, decay float32) *ExponentialDecaySchedule {
	if decay <= 0 || decay > 1 {
		panic("ExponentialDecay: decay must be in (0, 1]")
	}
	return &ExponentialDecaySchedule{Initial: initial, Decay: decay}
}

// LR returns the decayed rate for the given epoch.
func (s *ExponentialDecaySchedule) LR(epoch int) float32 {
	return s.Initial * float32(math.Pow(float64(s.Decay), float64(epoch)))
}
