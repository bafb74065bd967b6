package e32

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ParameterDriver reads and writes module parameters.
type ParameterDriver interface {
	Parameters() (Parameters, error)
	SetParameters(p Parameters, persistence Persistence) error
}

// Outcome is the terminal state of Configure.
type Outcome int

const (
	// Unchanged means the module already had the desired parameters; nothing was written.
	Unchanged Outcome = iota
	// Applied means the parameters were written and read back identical.
	Applied
	// Unconfirmed means the write succeeded but the read-back differs.
	Unconfirmed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Applied:
		return "applied"
	case Unconfirmed:
		return "applied-but-unconfirmed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

type Result struct {
	Outcome  Outcome
	Previous Parameters
	// Current is the read-back after a write; equal to Previous when Unchanged.
	Current Parameters
}

// Configure makes the module's parameters equal want.Parameters:
//  1. Read the existing parameters.
//  2. Stop if they already match.
//  3. Write want with its persistence.
//  4. Read them back once.
//
// Read and write failures are returned. A read-back mismatch is not an error;
// it is reported as Unconfirmed.
func Configure(drv ParameterDriver, want Desired, log zerolog.Logger) (Result, error) {
	log.Info().Msg("loading existing parameters")
	old, err := drv.Parameters()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read existing parameters: %w", err)
	}
	log.Debug().Interface("parameters", old).Msg("loaded parameters")

	res := Result{Outcome: Unchanged, Previous: old, Current: old}
	if old == want.Parameters {
		log.Info().Msg("leaving parameters unchanged")
		return res, nil
	}

	log.Info().Stringer("persistence", want.Persistence).Msg("updating parameters")
	if err := drv.SetParameters(want.Parameters, want.Persistence); err != nil {
		return res, fmt.Errorf("failed to set new parameters: %w", err)
	}

	cur, err := drv.Parameters()
	if err != nil {
		return res, fmt.Errorf("failed to read current parameters: %w", err)
	}
	res.Current = cur
	if cur == want.Parameters {
		res.Outcome = Applied
		log.Info().Msg("successfully applied new parameters")
		return res, nil
	}

	res.Outcome = Unconfirmed
	log.Warn().Interface("current", cur).Interface("desired", want.Parameters).Msg("parameters unchanged after write")
	return res, nil
}
