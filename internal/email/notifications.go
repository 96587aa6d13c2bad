package email

import (
	"context"
	"log"

	"stively/internal/config"
	"stively/internal/models"
)

// AdminEmailGetter is an interface for getting reviewer emails.
type AdminEmailGetter interface {
	GetAdminEmails(ctx context.Context) ([]string, error)
}

// Notifier sends email notifications for editorial lifecycle events.
// Every notification is best-effort: failures are logged and never affect
// the decision that triggered them.
type Notifier struct {
	service   *Service
	templates *Templates
	cfg       *config.Config
	db        AdminEmailGetter
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, db AdminEmailGetter) *Notifier {
	return &Notifier{
		service:   NewService(cfg),
		templates: NewTemplates(cfg),
		cfg:       cfg,
		db:        db,
	}
}

// NotifySubmissionReceived tells admins a new submission awaits review.
func (n *Notifier) NotifySubmissionReceived(ctx context.Context, sub *models.Submission) {
	if !n.service.IsEnabled() {
		return
	}

	emails, err := n.db.GetAdminEmails(ctx)
	if err != nil {
		log.Printf("Failed to get admin emails: %v", err)
		return
	}
	if len(emails) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.SubmissionReceived(sub)
	n.service.SendAsync(emails, subject, htmlBody, textBody)
}

// NotifyArticlePublished tells the author their submission went live.
func (n *Notifier) NotifyArticlePublished(sub *models.Submission, article *models.Article) {
	if !n.service.IsEnabled() || sub.AuthorEmail == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.ArticlePublished(sub, article)
	n.service.SendAsync([]string{sub.AuthorEmail}, subject, htmlBody, textBody)
}

// NotifyRevisionRequested sends the reviewer's notes to the author.
func (n *Notifier) NotifyRevisionRequested(sub *models.Submission, notes string) {
	if !n.service.IsEnabled() || sub.AuthorEmail == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.RevisionRequested(sub, notes)
	n.service.SendAsync([]string{sub.AuthorEmail}, subject, htmlBody, textBody)
}

// NotifyApplicationApproved welcomes a newly approved author.
func (n *Notifier) NotifyApplicationApproved(app *models.AuthorApplication) {
	if !n.service.IsEnabled() || app.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.ApplicationApproved(app)
	n.service.SendAsync([]string{app.Email}, subject, htmlBody, textBody)
}

// NotifyApplicationRejected informs an applicant of the decision.
func (n *Notifier) NotifyApplicationRejected(app *models.AuthorApplication) {
	if !n.service.IsEnabled() || app.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.ApplicationRejected(app)
	n.service.SendAsync([]string{app.Email}, subject, htmlBody, textBody)
}

// SendVerification sends the newsletter double-opt-in mail.
func (n *Notifier) SendVerification(email, token string) {
	if !n.service.IsEnabled() || email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.NewsletterVerification(email, token)
	n.service.SendAsync([]string{email}, subject, htmlBody, textBody)
}

// SendWelcome sends the post-verification welcome mail with the
// subscriber's unsubscribe link.
func (n *Notifier) SendWelcome(email, unsubscribeToken string) {
	if !n.service.IsEnabled() || email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.NewsletterWelcome(email, unsubscribeToken)
	n.service.SendAsync([]string{email}, subject, htmlBody, textBody)
}
