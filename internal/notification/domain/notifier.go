package domain

import (
	"context"
	"errors"
)

const ChannelSMS = "sms"

// Notifier delivers a rendered message to a recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Template  string `json:"template"`
}

var (
	ErrInvalidRecipient = errors.New("invalid_recipient")
	ErrUnknownTemplate  = errors.New("unknown_template")
	ErrDeliveryFailed   = errors.New("notification_delivery_failed")
)
