package email

import (
	"fmt"
	"html"

	"stively/internal/config"
	"stively/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #667eea; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #667eea; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .notes-box { background: #fff3cd; border-left: 4px solid #ffc107; border-radius: 6px; padding: 15px; margin: 15px 0; white-space: pre-wrap; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// ArticlePublished generates the mail sent to an author when their
// submission is approved and published.
func (t *Templates) ArticlePublished(sub *models.Submission, article *models.Article) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Your article has been published on %s", t.cfg.SiteTitle)

	link := fmt.Sprintf("%s/blog/%s", t.cfg.FrontendURL, article.Slug)
	content := fmt.Sprintf(`
        <p>Great news! Your article "<strong>%s</strong>" has been approved and published.</p>
        <p style="text-align: center;">
            <a href="%s" class="button">View Your Published Article</a>
        </p>
        <p>Your article is now live and being read by our community. Keep up the great work!</p>
    `, html.EscapeString(article.Title), link)

	htmlBody = t.baseHTML("Congratulations!", content)
	textBody = fmt.Sprintf(
		"Your article %q has been approved and published.\n\nRead it here: %s\n",
		article.Title, link)
	return subject, htmlBody, textBody
}

// RevisionRequested generates the mail sent to an author when a reviewer
// asks for changes. The reviewer's notes are included verbatim.
func (t *Templates) RevisionRequested(sub *models.Submission, notes string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Revision requested for your article on %s", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>We've reviewed your article "<strong>%s</strong>" and would like to request some revisions before publishing.</p>
        <div class="notes-box">
            <h3 style="margin-top: 0;">Reviewer's Notes:</h3>
            <p style="margin: 0;">%s</p>
        </div>
        <p style="text-align: center;">
            <a href="%s/author/dashboard" class="button">Edit Your Article</a>
        </p>
        <p>Please make the requested changes and resubmit for review.</p>
    `, html.EscapeString(sub.AuthorName), html.EscapeString(sub.Title), html.EscapeString(notes), t.cfg.FrontendURL)

	htmlBody = t.baseHTML("Revision Requested", content)
	textBody = fmt.Sprintf(
		"Hi %s,\n\nWe've reviewed your article %q and would like some revisions.\n\nReviewer's notes:\n%s\n\nEdit your article: %s/author/dashboard\n",
		sub.AuthorName, sub.Title, notes, t.cfg.FrontendURL)
	return subject, htmlBody, textBody
}

// SubmissionReceived generates the mail sent to admins when a new
// submission lands in the review queue.
func (t *Templates) SubmissionReceived(sub *models.Submission) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New article submission: %s", t.cfg.SiteTitle, sub.Title)

	content := fmt.Sprintf(`
        <p>A new article has been submitted and requires review.</p>
        <div class="info-box">
            <p><strong>Title:</strong> %s</p>
            <p><strong>Category:</strong> %s</p>
            <p><strong>Submitted by:</strong> %s (%s)</p>
        </div>
        <p style="text-align: center;">
            <a href="%s/admin/submissions" class="button">Review in Dashboard</a>
        </p>
    `, html.EscapeString(sub.Title), html.EscapeString(sub.Category),
		html.EscapeString(sub.AuthorName), html.EscapeString(sub.AuthorEmail), t.cfg.FrontendURL)

	htmlBody = t.baseHTML("New Submission", content)
	textBody = fmt.Sprintf(
		"A new article %q by %s (%s) is awaiting review.\n\nReview it: %s/admin/submissions\n",
		sub.Title, sub.AuthorName, sub.AuthorEmail, t.cfg.FrontendURL)
	return subject, htmlBody, textBody
}

// ApplicationApproved generates the mail sent when an author application
// is accepted.
func (t *Templates) ApplicationApproved(app *models.AuthorApplication) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Welcome to the %s author community!", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>Your author application has been approved. You can now sign in and start submitting articles.</p>
        <p style="text-align: center;">
            <a href="%s/author" class="button">Go to Author Dashboard</a>
        </p>
    `, html.EscapeString(app.Name), t.cfg.FrontendURL)

	htmlBody = t.baseHTML("Application Approved", content)
	textBody = fmt.Sprintf(
		"Hi %s,\n\nYour author application has been approved. Sign in and start writing: %s/author\n",
		app.Name, t.cfg.FrontendURL)
	return subject, htmlBody, textBody
}

// ApplicationRejected generates the mail sent when an author application
// is declined.
func (t *Templates) ApplicationRejected(app *models.AuthorApplication) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Your %s author application", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Hi %s,</p>
        <p>Thank you for your interest in writing for %s. After review, we are unable to accept your application at this time.</p>
        <p>You are welcome to apply again in the future.</p>
    `, html.EscapeString(app.Name), html.EscapeString(t.cfg.SiteTitle))

	htmlBody = t.baseHTML("Application Update", content)
	textBody = fmt.Sprintf(
		"Hi %s,\n\nThank you for your interest in writing for %s. We are unable to accept your application at this time.\n",
		app.Name, t.cfg.SiteTitle)
	return subject, htmlBody, textBody
}

// NewsletterVerification generates the double-opt-in verification mail.
func (t *Templates) NewsletterVerification(email, token string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Confirm your %s newsletter subscription", t.cfg.SiteTitle)

	link := fmt.Sprintf("%s/api/newsletter/verify?token=%s", t.cfg.BaseURL, token)
	content := fmt.Sprintf(`
        <p>Thanks for subscribing to the %s newsletter!</p>
        <p>Please confirm your email address within 24 hours:</p>
        <p style="text-align: center;">
            <a href="%s" class="button">Confirm Subscription</a>
        </p>
        <p>If you did not request this, you can safely ignore this email.</p>
    `, html.EscapeString(t.cfg.SiteTitle), link)

	htmlBody = t.baseHTML("Confirm Your Subscription", content)
	textBody = fmt.Sprintf(
		"Thanks for subscribing to the %s newsletter!\n\nConfirm your email within 24 hours: %s\n",
		t.cfg.SiteTitle, link)
	return subject, htmlBody, textBody
}

// NewsletterWelcome generates the mail sent after a successful verification.
// It carries the subscriber's personal unsubscribe link.
func (t *Templates) NewsletterWelcome(email, unsubscribeToken string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("Welcome to the %s newsletter!", t.cfg.SiteTitle)

	unsubLink := fmt.Sprintf("%s/api/newsletter/unsubscribe?token=%s", t.cfg.BaseURL, unsubscribeToken)
	content := fmt.Sprintf(`
        <p>Your subscription is confirmed. You'll now receive our latest articles straight to your inbox.</p>
        <p style="text-align: center;">
            <a href="%s/blog" class="button">Browse Articles</a>
        </p>
        <p style="font-size: 12px; color: #6b7280;">Don't want these emails? <a href="%s">Unsubscribe</a>.</p>
    `, t.cfg.FrontendURL, unsubLink)

	htmlBody = t.baseHTML("You're In!", content)
	textBody = fmt.Sprintf(
		"Your subscription to the %s newsletter is confirmed.\n\nBrowse articles: %s/blog\n\nUnsubscribe: %s\n",
		t.cfg.SiteTitle, t.cfg.FrontendURL, unsubLink)
	return subject, htmlBody, textBody
}
