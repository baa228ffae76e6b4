package nats

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/game"
	"voyager.com/dealer/logging"
)

var natsLogger = log.With().Str("logger_name", "nats::publisher").Logger()

// MessagePublisher is the part of a NATS connection the publisher uses.
type MessagePublisher interface {
	Publish(subj string, data []byte) error
}

// Publisher broadcasts round events of every table to NATS.
//
// table.<id>.round: a round was dealt (no cards are included)
// table.<id>.showdown: the round was settled, with every hand and the winners
type Publisher struct {
	conn MessagePublisher
}

func Connect(natsURL string) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(natsURL, natsgo.Name("five-card-dealer"), natsgo.MaxReconnects(-1))
	if err != nil {
		return nil, errors.Wrapf(err, "Error connecting to NATS server %s", natsURL)
	}
	return nc, nil
}

func NewPublisher(conn MessagePublisher) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) RoundStarted(tableID string, state game.TableState, seats []game.SeatView) error {
	message := RoundStartedMessage{
		MessageType: RoundStarted,
		TableID:     tableID,
		State:       state,
		Seats:       seats,
	}
	return p.publish(GetRoundSubject(tableID), message)
}

func (p *Publisher) RoundEnded(tableID string, result *game.RoundResult) error {
	message := RoundEndedMessage{
		MessageType: RoundEnded,
		TableID:     tableID,
		Result:      result,
	}
	return p.publish(GetShowdownSubject(tableID), message)
}

func (p *Publisher) publish(subject string, message interface{}) error {
	data, err := jsoniter.Marshal(message)
	if err != nil {
		return errors.Wrapf(err, "Unable to encode message for %s", subject)
	}
	err = p.conn.Publish(subject, data)
	if err != nil {
		natsLogger.Error().Err(err).Str(logging.SubjectKey, subject).Msg("Failed to publish")
		return err
	}
	natsLogger.Debug().Str(logging.SubjectKey, subject).Int("bytes", len(data)).Msg("Published")
	return nil
}
