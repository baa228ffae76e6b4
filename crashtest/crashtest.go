package crashtest

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// CrashPoint is an enum representing different points in a round that the dealer can crash.
type CrashPoint string

const (
	CrashPoint_NO_CRASH          CrashPoint = "NO_CRASH"
	CrashPoint_NOW               CrashPoint = "NOW"
	CrashPoint_DEAL_COMPLETE     CrashPoint = "DEAL_COMPLETE"
	CrashPoint_ROUND_STARTED     CrashPoint = "ROUND_STARTED"
	CrashPoint_BEFORE_SETTLEMENT CrashPoint = "BEFORE_SETTLEMENT"
)

// IsValid checks if cp is a valid enum value for CrashPoint.
func (cp CrashPoint) IsValid() error {
	switch cp {
	case CrashPoint_NO_CRASH, CrashPoint_NOW, CrashPoint_DEAL_COMPLETE,
		CrashPoint_ROUND_STARTED, CrashPoint_BEFORE_SETTLEMENT:
		return nil
	}
	return fmt.Errorf("Invalid crash point [%s]", cp)
}

var crashTestLogger = log.With().Str("logger_name", "crashtest::controller").Logger()
var crashAt CrashPoint = CrashPoint_NO_CRASH
var exitFunc = func() { os.Exit(1) }

// SetExitFunc replaces what happens when a crash point is hit.
func SetExitFunc(f func()) {
	exitFunc = f
}

// Set schedules for crashing at the specified point.
// If cp == CrashPoint_NOW, the function will crash immediately.
func Set(cp CrashPoint) error {
	if err := cp.IsValid(); err != nil {
		return err
	}
	crashAt = cp
	crashTestLogger.Info().Msgf("Crash point set to %s", cp)
	if cp == CrashPoint_NOW {
		Hit(CrashPoint_NOW)
	}
	return nil
}

// Hit calls the exit function if cp matches the crash point scheduled by Set.
// The crash point is cleared once hit.
func Hit(cp CrashPoint) {
	if cp == crashAt {
		fmt.Printf("CRASHTEST: %s\n", cp)
		crashAt = CrashPoint_NO_CRASH
		exitFunc()
	}
}
