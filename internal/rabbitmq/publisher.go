package rabbitmq

import (
	"github.com/streadway/amqp"

	librabbit "github.com/magabrotheeeer/estate-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Publisher публикует доменные события в exchange уведомлений.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает новый экземпляр Publisher.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishUserRegistered публикует событие регистрации пользователя.
func (p *Publisher) PublishUserRegistered(username, email string) error {
	return librabbit.PublishMessage(p.ch, Exchange, UserRegisteredKey, models.UserRegisteredEvent{
		Username: username,
		Email:    email,
	})
}
