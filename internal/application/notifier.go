package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

// Activity is something that happened to a user's content.
type Activity struct {
	Type      string // one of mailtpl.CommentCreated, ReplyCreated, PostLiked
	Recipient *entity.User
	Actor     *entity.Actor
	Post      *entity.Post
	Content   string
}

// Notifier is told about activities. Implementations must not block the request on delivery.
type Notifier interface {
	Notify(ctx context.Context, a Activity)
}

// JobPublisher puts a JSON message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns activities into EmailJobs on RabbitMQ.
type QueueNotifier struct {
	Publisher JobPublisher
	Cfg       *config.Config
	Logger    *logrus.Logger
}

func NewQueueNotifier(pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Publisher: pub, Cfg: cfg, Logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, a Activity) {
	if n == nil || n.Publisher == nil || a.Recipient == nil || a.Post == nil {
		return
	}
	actorName := ""
	if a.Actor != nil {
		actorName = a.Actor.Name
	}
	opts := []mailtpl.Option{mailtpl.WithTime(a.Post.UpdatedAt)}
	if a.Content != "" {
		opts = append(opts, mailtpl.WithExcerpt(a.Content))
	}
	job := mailer.EmailJob{
		To:       a.Recipient.Email,
		Event:    a.Type,
		PostID:   a.Post.ID,
		Template: mailtpl.Notification,
		Data:     mailtpl.NewNotificationData(n.Cfg, a.Type, a.Recipient.Name, a.Recipient.Email, actorName, a.Post.ID, a.Post.Title, opts...),
	}
	if err := n.Publisher.PublishJSON(ctx, job); err != nil {
		notifications.Add("failed", 1)
		if n.Logger != nil {
			n.Logger.WithError(err).WithField("type", a.Type).WithField("post_id", a.Post.ID).Warn("enqueue notification failed")
		}
		return
	}
	notifications.Add(a.Type, 1)
}

// notify skips self-activity and missing notifiers.
func notify(ctx context.Context, n Notifier, a Activity) {
	if n == nil || a.Recipient == nil || a.Actor == nil || a.Recipient.ID == a.Actor.ID {
		return
	}
	n.Notify(ctx, a)
}
