package nats

import (
	"fmt"
)

func GetRoundSubject(tableID string) string {
	return fmt.Sprintf("table.%s.round", tableID)
}

func GetShowdownSubject(tableID string) string {
	return fmt.Sprintf("table.%s.showdown", tableID)
}
