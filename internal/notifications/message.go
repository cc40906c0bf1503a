package notifications

import (
	"fmt"
	"html"
	"strings"

	"github.com/MimoJanra/SitePulse/internal/models"
)

// Alert is the rendered content shared by every channel for one new incident.
type Alert struct {
	SiteName     string
	SiteURL      string
	Error        *string
	IncidentID   string
	IncidentLink string
}

func newAlert(appURL string, inc models.Incident, site models.Site, triggeringError *string) Alert {
	return Alert{
		SiteName:     site.Name,
		SiteURL:      site.URL,
		Error:        triggeringError,
		IncidentID:   inc.ID,
		IncidentLink: fmt.Sprintf("%s/incidents/%s", strings.TrimRight(appURL, "/"), inc.ID),
	}
}

func (a Alert) hasError() bool {
	return a.Error != nil && *a.Error != ""
}

func formatEmailSubject(a Alert) string {
	return fmt.Sprintf("[Down] %s is not responding", a.SiteName)
}

func formatEmailBody(a Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s is down</h2>\n", html.EscapeString(a.SiteName))
	fmt.Fprintf(&b, "<p><strong>URL:</strong> %s</p>\n", html.EscapeString(a.SiteURL))
	if a.hasError() {
		fmt.Fprintf(&b, "<p><strong>Error:</strong> %s</p>\n", html.EscapeString(*a.Error))
	}
	fmt.Fprintf(&b, `<p><a href="%s">View incident details</a></p>`, html.EscapeString(a.IncidentLink))
	return b.String()
}

func formatSlackMessage(a Alert) string {
	text := fmt.Sprintf("<!channel> :red_circle: *%s is down*\n", a.SiteName)
	text += fmt.Sprintf("*URL:* %s\n", a.SiteURL)
	if a.hasError() {
		text += fmt.Sprintf("*Error:* %s\n", *a.Error)
	}
	text += fmt.Sprintf("<%s|View incident details>", a.IncidentLink)
	return text
}

func formatSMSMessage(a Alert) string {
	text := fmt.Sprintf("[Down] %s (%s)", a.SiteName, a.SiteURL)
	if a.hasError() {
		text += fmt.Sprintf(": %s", *a.Error)
	}
	text += " " + a.IncidentLink
	return text
}

// Recipients groups contact destinations by channel.
type Recipients struct {
	Emails        []string
	SlackWebhooks []string
	Phones        []string
	Unknown       []models.Contact
}

func PartitionContacts(contacts []models.Contact) Recipients {
	var r Recipients
	for _, c := range contacts {
		addr := strings.TrimSpace(c.Address)
		if addr == "" {
			continue
		}
		switch c.Type {
		case models.ContactEmail:
			r.Emails = append(r.Emails, addr)
		case models.ContactSlack:
			r.SlackWebhooks = append(r.SlackWebhooks, addr)
		case models.ContactSMS:
			r.Phones = append(r.Phones, addr)
		default:
			r.Unknown = append(r.Unknown, c)
		}
	}
	return r
}
