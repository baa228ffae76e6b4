package gamescript

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/godo.v2/glob"
	"voyager.com/dealer/game"
	"voyager.com/dealer/logging"
	"voyager.com/dealer/poker"
)

type ScriptTestResult struct {
	Filename string
	Rounds   int
	Failures []error
}

func (s *ScriptTestResult) addError(e error) {
	s.Failures = append(s.Failures, e)
}

func (s *ScriptTestResult) Passed() bool {
	return len(s.Failures) == 0
}

// Run seats the script players at a fresh table and plays every round, checking the
// verify block of each. Setup errors end the run; verification failures are collected.
func Run(script *Script, logger zerolog.Logger) (*ScriptTestResult, error) {
	if err := script.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid script")
	}
	result := &ScriptTestResult{Failures: make([]error, 0)}
	opts := []game.DealerOption{
		game.WithRandSource(rand.New(rand.NewSource(script.Table.Seed))),
		game.WithAnte(script.Table.Ante),
		game.WithLogger(logger),
	}
	dealer := game.NewDealer("script", opts...)

	players := make(map[string]*game.Player, len(script.Players))
	for _, p := range script.Players {
		player := game.NewPlayer(p.ID, p.Name, p.Chips)
		if err := dealer.AddPlayer(player); err != nil {
			return nil, errors.Wrapf(err, "Unable to seat %s", p.Name)
		}
		players[p.Name] = player
	}

	for i := range script.Rounds {
		round := &script.Rounds[i]
		roundNum := i + 1
		if len(round.SeatCards) > 0 {
			deck, err := poker.DeckFromScript(round.SeatedCards())
			if err != nil {
				return nil, errors.Wrapf(err, "Round %d", roundNum)
			}
			if err := dealer.UseDeckForNextRound(deck); err != nil {
				return nil, errors.Wrapf(err, "Round %d", roundNum)
			}
		}
		if err := dealer.StartGame(); err != nil {
			return nil, errors.Wrapf(err, "Round %d could not start", roundNum)
		}
		for _, name := range round.Fold {
			if err := dealer.Fold(players[name].ID); err != nil {
				return nil, errors.Wrapf(err, "Round %d: %s could not fold", roundNum, name)
			}
		}
		roundResult, err := dealer.EndGame()
		if err != nil {
			return nil, errors.Wrapf(err, "Round %d could not end", roundNum)
		}
		result.Rounds++

		for _, e := range verifyRound(roundNum, &round.Verify, roundResult, players) {
			logger.Error().Uint32(logging.RoundKey, roundResult.Round).Msg(e.Error())
			result.addError(e)
		}
	}
	return result, nil
}

func verifyRound(roundNum int, verify *Verify, result *game.RoundResult, players map[string]*game.Player) []error {
	failures := make([]error, 0)
	if len(verify.Winners) > 0 {
		actual := make([]string, 0, len(result.WinningSeats))
		for _, seatNo := range result.WinningSeats {
			actual = append(actual, result.Seats[seatNo].Name)
		}
		if strings.Join(actual, ",") != strings.Join(verify.Winners, ",") {
			failures = append(failures, fmt.Errorf("Round %d: winners %v expected %v", roundNum, actual, verify.Winners))
		}
	}
	for name, expected := range verify.Ranks {
		seat := seatByName(result, name)
		if seat.Folded {
			failures = append(failures, fmt.Errorf("Round %d: %s folded, no rank to check", roundNum, name))
			continue
		}
		if seat.Rank.Category.String() != expected {
			failures = append(failures, fmt.Errorf("Round %d: %s holds %s expected %s",
				roundNum, name, seat.Rank.Category, expected))
		}
	}
	for name, expected := range verify.Chips {
		if actual := players[name].Chips; actual != expected {
			failures = append(failures, fmt.Errorf("Round %d: %s has %d chips expected %d", roundNum, name, actual, expected))
		}
	}
	return failures
}

func seatByName(result *game.RoundResult, name string) game.SeatResult {
	for _, seat := range result.Seats {
		if seat.Name == name {
			return seat
		}
	}
	return game.SeatResult{}
}

// RunGameScripts runs a single script or every yaml script under a directory and
// prints a report. It fails when any script fails.
func RunGameScripts(fileOrDir string, testName string, logger zerolog.Logger) error {
	info, err := os.Stat(fileOrDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist", fileOrDir)
	} else if err != nil {
		return errors.Wrapf(err, "Unable to read %s", fileOrDir)
	}
	scriptFiles := []string{fileOrDir}
	if info.IsDir() {
		files, _, err := glob.Glob([]string{fmt.Sprintf("%s/**/*.yaml", fileOrDir)})
		if err != nil {
			return errors.Wrapf(err, "Failed to get game script file(s) from dir: %s", fileOrDir)
		}
		scriptFiles = scriptFiles[:0]
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			scriptFiles = append(scriptFiles, file.Path)
		}
	}

	passed := true
	for _, scriptFile := range scriptFiles {
		name := filepath.Base(scriptFile)
		if testName != "" && !strings.Contains(name, testName) {
			continue
		}
		fmt.Printf("Running game script: %s\n", scriptFile)
		script, err := ReadGameScript(scriptFile)
		if err != nil {
			passed = false
			fmt.Printf("%s\n", err.Error())
			continue
		}
		result, err := Run(script, logger.With().Str("script", name).Logger())
		if err != nil {
			passed = false
			fmt.Printf("Script %s failed: %s\n", scriptFile, err.Error())
			continue
		}
		if !result.Passed() {
			passed = false
			fmt.Printf("Script %s failed\n", scriptFile)
			fmt.Printf("===========================\n")
			for _, e := range result.Failures {
				fmt.Printf("%s\n", e.Error())
			}
			fmt.Printf("===========================\n")
		}
	}
	if !passed {
		return fmt.Errorf("One or more scripts failed")
	}
	fmt.Printf("All scripts passed\n")
	return nil
}
