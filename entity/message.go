package entity

import (
	"time"
)

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Message is one persisted chat turn, kept for audit and for rebuilding
// conversation memory after a restart.
type Message struct {
	UserUUID  string    `json:"user_uuid" bson:"user_uuid"`
	Direction string    `json:"direction" bson:"direction"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
