package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/wecar/marketing-platform/internal/config"
	"github.com/wecar/marketing-platform/internal/models"
)

// Service delivers activity digests via configured channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendDigest sends the activity digest via every configured channel
func (s *Service) SendDigest(report *models.ActivityReport) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(report); err != nil {
			logrus.Errorf("Failed to send Teams digest: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email digest: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(report *models.ActivityReport) error {
	message := s.buildTeamsMessage(report)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.ActivityReport) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Marketing Platform Digest - %s", titleCase(report.Period)),
		Text: fmt.Sprintf("%d new training examples and %d active A/B tests in the last %s period",
			report.NewExamples, report.ActiveABTests, report.Period),
	}

	facts := []TeamsFact{
		{Name: "New Training Examples", Value: fmt.Sprintf("%d", report.NewExamples)},
		{Name: "Active A/B Tests", Value: fmt.Sprintf("%d", report.ActiveABTests)},
		{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
	}

	if postTypes, ok := report.Summary["post_types"].(map[string]int); ok {
		for postType, count := range postTypes {
			facts = append(facts, TeamsFact{
				Name:  fmt.Sprintf("%s Submissions", titleCase(postType)),
				Value: fmt.Sprintf("%d", count),
			})
		}
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.RecentExamples) > 0 {
		var lines []string
		limit := 5
		if len(report.RecentExamples) < limit {
			limit = len(report.RecentExamples)
		}

		for i := 0; i < limit; i++ {
			example := report.RecentExamples[i]
			lines = append(lines, fmt.Sprintf("**%s** (%s) - %s",
				example.UserID, example.PostType, example.CreatedAt.Format("Jan 2")))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Recent Submissions",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.ActivityReport) error {
	subject := fmt.Sprintf("Marketing Platform Digest - %s (%d new examples)",
		titleCase(report.Period), report.NewExamples)

	htmlBody, err := s.buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := s.buildEmailText(report)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailHTML(report *models.ActivityReport) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Marketing Platform Digest</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #2e7d32; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .example { border-left: 4px solid #2e7d32; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .example-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Marketing Platform Digest</h1>
        <p>{{.Period}} digest generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>New Training Examples:</strong> {{.NewExamples}}</p>
        <p><strong>Active A/B Tests:</strong> {{.ActiveABTests}}</p>
    </div>

    {{if .RecentExamples}}
    <h2>Recent Submissions</h2>
    {{range $index, $example := .RecentExamples}}
        {{if lt $index 10}}
        <div class="example">
            <div class="example-meta">
                By {{$example.UserID}} ({{$example.PostType}}) | {{$example.CreatedAt.Format "Jan 2, 2006"}}
            </div>
            <p>{{$example.Content | truncate 200}}</p>
        </div>
        {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by the marketing platform.</small></p>
</body>
</html>
`

	t := template.New("digest").Funcs(template.FuncMap{
		"truncate": func(length int, s string) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, report); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Service) buildEmailText(report *models.ActivityReport) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Marketing Platform Digest - %s\n", titleCase(report.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("New Training Examples: %d\n", report.NewExamples))
	text.WriteString(fmt.Sprintf("Active A/B Tests: %d\n", report.ActiveABTests))

	if postTypes, ok := report.Summary["post_types"].(map[string]int); ok {
		for postType, count := range postTypes {
			text.WriteString(fmt.Sprintf("%s Submissions: %d\n", titleCase(postType), count))
		}
	}

	if len(report.RecentExamples) > 0 {
		text.WriteString("\nRECENT SUBMISSIONS\n")
		text.WriteString("==================\n")

		limit := 10
		if len(report.RecentExamples) < limit {
			limit = len(report.RecentExamples)
		}

		for i := 0; i < limit; i++ {
			example := report.RecentExamples[i]
			text.WriteString(fmt.Sprintf("\n%d. %s (%s) on %s\n", i+1,
				example.UserID, example.PostType, example.CreatedAt.Format("Jan 2, 2006")))
			content := example.Content
			if len(content) > 200 {
				content = content[:200] + "..."
			}
			text.WriteString(fmt.Sprintf("   Content: %s\n", content))
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by the marketing platform.\n")

	return text.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
