package nats

import "voyager.com/dealer/game"

const (
	RoundStarted = "ROUND_STARTED"
	RoundEnded   = "ROUND_ENDED"
)

type RoundStartedMessage struct {
	MessageType string          `json:"messageType"`
	TableID     string          `json:"tableId"`
	State       game.TableState `json:"state"`
	Seats       []game.SeatView `json:"seats"`
}

type RoundEndedMessage struct {
	MessageType string            `json:"messageType"`
	TableID     string            `json:"tableId"`
	Result      *game.RoundResult `json:"result"`
}
