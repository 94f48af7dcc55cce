package mailer

// EmailJob is one notification email queued on RabbitMQ. Either Template (with
// Data) or a prebuilt Text/HTML body must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Event    string         `json:"event,omitempty"` // comment_created, reply_created, post_liked
	PostID   int64          `json:"post_id,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Empty reports whether the job has nothing to render or send.
func (j EmailJob) Empty() bool {
	return j.Template == "" && j.Text == "" && j.HTML == ""
}

// LogFields identifies the job in worker logs without exposing the body.
func (j EmailJob) LogFields() map[string]any {
	return map[string]any{"to": j.To, "event": j.Event, "post_id": j.PostID}
}
