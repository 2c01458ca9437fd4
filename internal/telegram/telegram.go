package telegram

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go

// Client delivers run summaries to the configured chat.
type Client interface {
	SendMessageToUser(ctx context.Context, text string) error
}
