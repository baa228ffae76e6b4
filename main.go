package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"voyager.com/dealer/crashtest"
	"voyager.com/dealer/game"
	"voyager.com/dealer/gamescript"
	"voyager.com/dealer/logging"
	"voyager.com/dealer/nats"
	"voyager.com/dealer/poker"
	"voyager.com/dealer/rest"
	"voyager.com/dealer/simulation"
	"voyager.com/dealer/util"
)

var runServer *bool
var gameScriptsFileOrDir *string
var testName *string
var testDeal *bool
var numDeals *uint
var numPlayers *uint
var seed *int64
var restoreTables *string
var envFile *string
var crashAt *string
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	runServer = flag.Bool("server", true, "runs the dealer server")
	gameScriptsFileOrDir = flag.String("game-script", "", "runs game script file(s) and exits")
	testName = flag.String("testname", "", "runs a specific script")
	testDeal = flag.Bool("test-deal", false, "deals and counts ranks")
	numDeals = flag.Uint("num-deals", 100000, "number of test deals when -test-deal is set")
	numPlayers = flag.Uint("num-players", 6, "number of players when -test-deal is set")
	seed = flag.Int64("seed", 0, "random seed for -test-deal (0 picks one)")
	restoreTables = flag.String("restore", "", "comma separated table IDs to restore from saved state")
	envFile = flag.String("env", ".env", "optional file with environment variables")
	crashAt = flag.String("crash-at", "", "crash point for recovery testing (DEAL_COMPLETE, ROUND_STARTED, BEFORE_SETTLEMENT)")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	if err := util.LoadEnv(*envFile); err != nil {
		return errors.Wrap(err, "Error while reading environment")
	}
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = *logging.GetZeroLogger("dealer", nil)

	if *testDeal {
		return testDeals()
	}
	if *gameScriptsFileOrDir != "" {
		return gamescript.RunGameScripts(*gameScriptsFileOrDir, *testName, *mainLogger)
	}
	if *runServer {
		return runDealerServer()
	}
	return nil
}

func testDeals() error {
	s := *seed
	if s == 0 {
		s = poker.NewRandSource().Int63()
	}
	mainLogger.Info().Msgf("Dealing %d rounds to %d players with seed %d", *numDeals, *numPlayers, s)
	summary, err := simulation.Run(int(*numDeals), int(*numPlayers), s)
	if err != nil {
		return err
	}
	summary.Print(os.Stdout)
	return nil
}

func newStateTracker() (game.PersistTableState, error) {
	switch util.Env.GetPersistMethod() {
	case "memory":
		return game.NewMemoryTableStateTracker(), nil
	case "redis":
		redisURL := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		mainLogger.Info().Msgf("Saving table state in redis at %s", redisURL)
		return game.NewRedisTableStateTracker(redisURL, util.Env.GetRedisPW(), util.Env.GetRedisDB()), nil
	default:
		return nil, fmt.Errorf("Unsupported PERSIST_METHOD %s", util.Env.GetPersistMethod())
	}
}

func runDealerServer() error {
	if *crashAt != "" {
		if err := crashtest.Set(crashtest.CrashPoint(*crashAt)); err != nil {
			return err
		}
	}
	tracker, err := newStateTracker()
	if err != nil {
		return err
	}

	var notifier game.RoundNotifier
	natsURL := util.Env.GetNatsURL()
	if natsURL != "" {
		mainLogger.Info().Msgf("NATS URL: %s", natsURL)
		nc, err := nats.Connect(natsURL)
		if err != nil {
			return errors.Wrap(err, "Error connecting to NATS server")
		}
		defer nc.Close()
		notifier = nats.NewPublisher(nc)
	} else {
		mainLogger.Warn().Msg("NATS_URL is not set. Round events are not published.")
	}

	manager, err := game.NewManager(tracker, notifier, game.WithAnte(util.Env.GetAnte()))
	if err != nil {
		return errors.Wrap(err, "Error while creating table manager")
	}

	if *restoreTables != "" {
		for _, tableID := range strings.Split(*restoreTables, ",") {
			tableID = strings.TrimSpace(tableID)
			if _, err := manager.RestoreTable(tableID); err != nil {
				mainLogger.Error().Err(err).Str(logging.TableIDKey, tableID).Msg("Unable to restore table")
				continue
			}
			mainLogger.Info().Str(logging.TableIDKey, tableID).Msg("Table restored")
		}
	}
	for i := len(manager.Tables()); i < util.Env.GetTableCount(); i++ {
		manager.NewTable()
	}

	return rest.RunRestServer(manager, util.Env.GetRestPort())
}
