package email

import (
	"strings"
	"testing"

	"stively/internal/config"
	"stively/internal/models"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{
		BaseURL:     "https://api.example.com",
		FrontendURL: "https://example.com",
		SiteTitle:   "Stively",
	})
}

func TestArticlePublishedTemplate(t *testing.T) {
	sub := &models.Submission{AuthorName: "Casey", Title: "Harbour Report"}
	article := &models.Article{Slug: "harbour-report", Title: "Harbour Report"}

	subject, htmlBody, textBody := testTemplates().ArticlePublished(sub, article)

	if !strings.Contains(subject, "Stively") {
		t.Errorf("subject %q does not mention the site", subject)
	}
	if !strings.Contains(htmlBody, "Harbour Report") {
		t.Error("html body does not mention the article title")
	}
	link := "https://example.com/blog/harbour-report"
	if !strings.Contains(htmlBody, link) {
		t.Errorf("html body missing public link %s", link)
	}
	if !strings.Contains(textBody, link) {
		t.Errorf("text body missing public link %s", link)
	}
}

func TestRevisionRequestedTemplate_NotesVerbatim(t *testing.T) {
	sub := &models.Submission{AuthorName: "Casey", Title: "Harbour Report"}
	notes := "Paragraph 2 needs a source & the <title> is too long"

	_, htmlBody, textBody := testTemplates().RevisionRequested(sub, notes)

	if !strings.Contains(textBody, notes) {
		t.Error("text body must carry the reviewer's notes verbatim")
	}
	// HTML body escapes but never rewrites the notes.
	if !strings.Contains(htmlBody, "Paragraph 2 needs a source &amp; the &lt;title&gt; is too long") {
		t.Error("html body must carry the escaped notes")
	}
}

func TestNewsletterVerificationTemplate(t *testing.T) {
	_, htmlBody, textBody := testTemplates().NewsletterVerification("reader@example.com", "tok-123")

	link := "https://api.example.com/api/newsletter/verify?token=tok-123"
	if !strings.Contains(htmlBody, link) {
		t.Errorf("html body missing verification link %s", link)
	}
	if !strings.Contains(textBody, link) {
		t.Errorf("text body missing verification link %s", link)
	}
}

func TestNewsletterWelcomeTemplate_UnsubscribeLink(t *testing.T) {
	_, htmlBody, textBody := testTemplates().NewsletterWelcome("reader@example.com", "unsub-tok-9")

	link := "https://api.example.com/api/newsletter/unsubscribe?token=unsub-tok-9"
	if !strings.Contains(htmlBody, link) {
		t.Errorf("html body missing unsubscribe link %s", link)
	}
	if !strings.Contains(textBody, link) {
		t.Errorf("text body missing unsubscribe link %s", link)
	}
}

func TestSubmissionReceivedTemplate(t *testing.T) {
	sub := &models.Submission{AuthorName: "Casey", AuthorEmail: "casey@example.com", Title: "Harbour Report"}

	subject, htmlBody, _ := testTemplates().SubmissionReceived(sub)

	if !strings.Contains(subject, "Harbour Report") {
		t.Errorf("subject %q does not mention the submission", subject)
	}
	if !strings.Contains(htmlBody, "casey@example.com") {
		t.Error("html body missing the author's address")
	}
}
