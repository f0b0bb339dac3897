package emergency

import (
	"fmt"
	"strings"
	"time"

	"safecalc/internal/settings"
)

// FormatAlert renders the alert text shown in the preview. Nothing is sent.
func FormatAlert(message string, contacts []settings.Contact, at time.Time) string {
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultMessage
	}
	lines := []string{
		message,
		"Prepared " + at.Format("Jan 2, 15:04"),
		contactsLine(contacts),
	}
	return strings.Join(lines, "\n")
}

func contactsLine(contacts []settings.Contact) string {
	switch len(contacts) {
	case 0:
		return "No contacts selected"
	case 1:
		return "1 contact selected: " + contactLabel(contacts[0])
	}
	labels := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		labels = append(labels, contactLabel(contact))
	}
	return fmt.Sprintf("%d contacts selected: %s", len(contacts), strings.Join(labels, ", "))
}

func contactLabel(contact settings.Contact) string {
	if contact.Phone == "" {
		return contact.Name
	}
	return fmt.Sprintf("%s (%s)", contact.Name, contact.Phone)
}
