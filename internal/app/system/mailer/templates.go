// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// NewApplicationData holds data for the email an organization receives when a
// volunteer applies to one of its opportunities.
type NewApplicationData struct {
	OrganizationName string
	VolunteerName    string
	OpportunityTitle string
	Message          string
}

func BuildNewApplicationEmail(data NewApplicationData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.OrganizationName)
	fmt.Fprintf(&buf, "%s has applied to your opportunity \"%s\".\n\n", data.VolunteerName, data.OpportunityTitle)
	if data.Message != "" {
		fmt.Fprintf(&buf, "Their message:\n%s\n\n", data.Message)
	}
	buf.WriteString("Sign in to review the application.\n")
	return Email{
		Subject:  fmt.Sprintf("New application for %s", data.OpportunityTitle),
		TextBody: buf.String(),
	}
}

// StatusChangeData holds data for the email a volunteer receives when an
// organization decides on their application.
type StatusChangeData struct {
	VolunteerName    string
	OpportunityTitle string
	Status           string // accepted, rejected, completed
	Notes            string
}

func BuildStatusChangeEmail(data StatusChangeData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.VolunteerName)
	fmt.Fprintf(&buf, "Your application for \"%s\" has been %s.\n\n", data.OpportunityTitle, data.Status)
	if data.Notes != "" {
		fmt.Fprintf(&buf, "Note from the organization:\n%s\n\n", data.Notes)
	}
	if data.Status == "completed" {
		buf.WriteString("Thank you for volunteering! Sign in to rate your experience.\n")
	} else {
		buf.WriteString("Sign in to view the details.\n")
	}
	return Email{
		Subject:  fmt.Sprintf("Application update: %s", data.OpportunityTitle),
		TextBody: buf.String(),
	}
}

// RatingReceivedData holds data for the email sent when the other party rates
// a completed application.
type RatingReceivedData struct {
	RecipientName    string
	RaterName        string
	OpportunityTitle string
	Score            int
}

func BuildRatingReceivedEmail(data RatingReceivedData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.RecipientName)
	fmt.Fprintf(&buf, "%s left you a %d-star rating for \"%s\".\n\n", data.RaterName, data.Score, data.OpportunityTitle)
	buf.WriteString("Sign in to see the feedback.\n")
	return Email{
		Subject:  fmt.Sprintf("You received a rating for %s", data.OpportunityTitle),
		TextBody: buf.String(),
	}
}

// RatingInviteData holds data for the email inviting an organization to rate
// a volunteer whose work was just marked completed.
type RatingInviteData struct {
	OrganizationName string
	VolunteerName    string
	OpportunityTitle string
}

func BuildRatingInviteEmail(data RatingInviteData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.OrganizationName)
	fmt.Fprintf(&buf, "%s has completed their work on \"%s\".\n\n", data.VolunteerName, data.OpportunityTitle)
	buf.WriteString("Sign in to rate their contribution.\n")
	return Email{
		Subject:  fmt.Sprintf("Rate your volunteer for %s", data.OpportunityTitle),
		TextBody: buf.String(),
	}
}

// CommunicationChangeData holds data for the email sent to the other party
// when someone changes an application's communication preference.
type CommunicationChangeData struct {
	RecipientName    string
	ChangedBy        string
	OpportunityTitle string
	Preference       string
}

func BuildCommunicationChangeEmail(data CommunicationChangeData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.RecipientName)
	fmt.Fprintf(&buf, "%s now prefers to be contacted via %s for \"%s\".\n",
		data.ChangedBy, data.Preference, data.OpportunityTitle)
	return Email{
		Subject:  fmt.Sprintf("Communication preference updated for %s", data.OpportunityTitle),
		TextBody: buf.String(),
	}
}

// ContactData holds a contact-form submission forwarded to the site admins.
type ContactData struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	UserType string // volunteer | organization | other
}

func BuildContactEmail(data ContactData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Contact form submission from %s <%s>\n", data.Name, data.Email)
	if data.UserType != "" {
		fmt.Fprintf(&buf, "User type: %s\n", data.UserType)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "%s\n", data.Message)
	return Email{
		Subject:  fmt.Sprintf("Contact form: %s", data.Subject),
		TextBody: buf.String(),
	}
}

// BuildContactConfirmationEmail is the copy sent back to the submitter.
func BuildContactConfirmationEmail(data ContactData) Email {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	buf.WriteString("Thanks for getting in touch. We received your message and will reply soon.\n\n")
	fmt.Fprintf(&buf, "Your message:\n%s\n", data.Message)
	return Email{
		Subject:  fmt.Sprintf("We received your message: %s", data.Subject),
		TextBody: buf.String(),
	}
}

// ResetPasswordData holds data for the password reset email.
type ResetPasswordData struct {
	SiteName  string
	Name      string
	ResetLink string
	ExpiresIn string // e.g., "10 minutes"
}

// BuildResetPasswordEmail creates a reset email with both HTML and text bodies.
func BuildResetPasswordEmail(data ResetPasswordData) Email {
	return Email{
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildResetText(data),
		HTMLBody: buildResetHTML(data),
	}
}

func buildResetText(data ResetPasswordData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.Name)
	buf.WriteString("We received a request to reset your password. Use this link:\n")
	buf.WriteString(data.ResetLink + "\n\n")
	fmt.Fprintf(&buf, "This link expires in %s.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request a reset, you can safely ignore this email.\n")
	return buf.String()
}

func buildResetHTML(data ResetPasswordData) string {
	tmpl := template.Must(template.New("reset").Parse(resetHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Reset Password</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #059669;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Hi {{.Name}}, we received a request to reset your password.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.ResetLink}}" style="display: inline-block; padding: 14px 32px; background-color: #059669; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Reset Password
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                This link expires in {{.ExpiresIn}}.
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you did not request a reset, you can safely ignore this email.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
