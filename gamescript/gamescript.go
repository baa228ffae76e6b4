package gamescript

import (
	"fmt"
	"io/ioutil"
	"sort"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"voyager.com/dealer/poker"
)

// Script contains game script YAML content.
type Script struct {
	Table   Table    `yaml:"table"`
	Players []Player `yaml:"players"`
	Rounds  []Round  `yaml:"rounds"`
}

type Table struct {
	Ante uint32 `yaml:"ante"`
	Seed int64  `yaml:"seed"`
}

// Player contains an entry in the players array. Players are seated in the order listed.
type Player struct {
	ID    uint64 `yaml:"id"`
	Name  string `yaml:"name"`
	Chips uint32 `yaml:"chips"`
}

// Round describes one round. Without seat-cards the deck is shuffled with the table seed.
type Round struct {
	SeatCards []SeatCards `yaml:"seat-cards"`
	Fold      []string    `yaml:"fold"`
	Verify    Verify      `yaml:"verify"`
}

type SeatCards struct {
	Seat  int      `yaml:"seat"`
	Cards []string `yaml:"cards"`
}

// Verify lists what is checked after the round is settled.
type Verify struct {
	Winners []string          `yaml:"winners"`
	Ranks   map[string]string `yaml:"ranks"`
	Chips   map[string]uint32 `yaml:"chips"`
}

// ReadGameScript reads and validates a game script file.
func ReadGameScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading game script file [%s]", fileName)
	}

	var script Script
	err = yaml.Unmarshal(bytes, &script)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing YAML file [%s]", fileName)
	}

	err = script.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "Error validating script [%s]", fileName)
	}
	return &script, nil
}

// Validate checks player IDs and names are unique and every round refers to seated players.
func (s *Script) Validate() error {
	playerIDs := mapset.NewSet()
	playerNames := mapset.NewSet()

	for _, p := range s.Players {
		if playerIDs.Contains(p.ID) {
			return fmt.Errorf("Duplicate player id [%d] in players", p.ID)
		}
		playerIDs.Add(p.ID)
		if playerNames.Contains(p.Name) {
			return fmt.Errorf("Duplicate player name [%s] in players", p.Name)
		}
		playerNames.Add(p.Name)
	}

	for i, round := range s.Rounds {
		roundNum := i + 1
		if len(round.SeatCards) > 0 {
			if len(round.SeatCards) != len(s.Players) {
				return fmt.Errorf("Round %d sets cards for %d seats but %d players are seated",
					roundNum, len(round.SeatCards), len(s.Players))
			}
			seats := mapset.NewSet()
			for _, sc := range round.SeatCards {
				if sc.Seat < 0 || sc.Seat >= len(s.Players) {
					return fmt.Errorf("Seat number [%d] is not valid for round %d", sc.Seat, roundNum)
				}
				if seats.Contains(sc.Seat) {
					return fmt.Errorf("Duplicate seat number [%d] in round %d seat-cards", sc.Seat, roundNum)
				}
				seats.Add(sc.Seat)
			}
		}

		names := make([]string, 0, len(round.Fold)+len(round.Verify.Winners))
		names = append(names, round.Fold...)
		names = append(names, round.Verify.Winners...)
		for name := range round.Verify.Ranks {
			names = append(names, name)
		}
		for name := range round.Verify.Chips {
			names = append(names, name)
		}
		for _, name := range names {
			if !playerNames.Contains(name) {
				return fmt.Errorf("Player [%s] in round %d is not seated", name, roundNum)
			}
		}
	}
	return nil
}

// SeatedCards returns the scripted cards of a round in seat order.
func (r *Round) SeatedCards() []poker.CardsInAscii {
	seatCards := make([]SeatCards, len(r.SeatCards))
	copy(seatCards, r.SeatCards)
	sort.Slice(seatCards, func(i, j int) bool {
		return seatCards[i].Seat < seatCards[j].Seat
	})
	cards := make([]poker.CardsInAscii, len(seatCards))
	for i, sc := range seatCards {
		cards[i] = poker.CardsInAscii(sc.Cards)
	}
	return cards
}

func (s *Script) GetPlayerByName(name string) *Player {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return &s.Players[i]
		}
	}
	return nil
}
