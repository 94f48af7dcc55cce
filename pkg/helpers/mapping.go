package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-ddd-blog/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-blog/pkg/mailer/templates"
)

// SubjectForNotification is the fallback subject when a job carries no rendered subject.
func SubjectForNotification(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.CommentCreated:
		return "New comment on your post"
	case mailtpl.ReplyCreated:
		return "New reply to your comment"
	case mailtpl.PostLiked:
		return "Someone liked your post"
	default:
		return "Notification"
	}
}

func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob fills Subject/Text/HTML from the job's template when it names one.
func RenderJob(job *mailer.EmailJob) error {
	EnsureRecipient(job)
	if job.Template != "" {
		subject, text, html, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return err
		}
		if job.Subject == "" {
			job.Subject = subject
		}
		job.Text, job.HTML = text, html
	}
	if job.Subject == "" {
		job.Subject = SubjectForNotification(job.Data)
	}
	return nil
}
