package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// reminderEmailTemplate is the HTML body of a deadline reminder email.
var reminderEmailTemplate = template.Must(template.New("reminder").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <p>{{.Body}}</p>
  {{if .TaskTitle}}<p><strong>Task:</strong> {{.TaskTitle}}</p>{{end}}
  {{if .DueDate}}<p><strong>Due:</strong> {{.DueDate}}</p>{{end}}
  {{if .TimeRemaining}}<p><strong>Time remaining:</strong> {{.TimeRemaining}}</p>{{end}}
  <p style="color: #888; font-size: 12px;">You are receiving this because email
  reminders are enabled in your notification preferences.</p>
</body>
</html>`))

// reminderEmailData is the template context for reminderEmailTemplate.
type reminderEmailData struct {
	Title         string
	Body          string
	TaskTitle     string
	DueDate       string
	TimeRemaining string
}

// renderReminderEmail renders the HTML email body, formatting the due date in
// the recipient's timezone.
func renderReminderEmail(payload Payload, opts Options, loc *time.Location) (string, error) {
	data := reminderEmailData{
		Title:         payload.Title,
		Body:          payload.Body,
		TaskTitle:     opts.TaskTitle,
		TimeRemaining: formatTimeRemaining(opts.HoursLeft, opts.MinutesLeft),
	}
	if !opts.DueDate.IsZero() {
		data.DueDate = opts.DueDate.In(loc).Format("Mon, 02 Jan 2006 15:04 MST")
	}

	var sb strings.Builder
	if err := reminderEmailTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatTimeRemaining renders hours and minutes remaining with pluralized
// wording, e.g. "1 hour 5 minutes". Returns "" when both figures are zero.
func formatTimeRemaining(hours, minutes int) string {
	if hours <= 0 && minutes <= 0 {
		return ""
	}

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, pluralize("hour", hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, pluralize("minute", minutes)))
	}
	return strings.Join(parts, " ")
}

// pluralize appends "s" to the noun unless n is exactly 1.
func pluralize(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
