package notify

import (
	"fmt"

	"lenslink-backend-go/internal/models"
)

// eventDate formats the event date the way it appears in messages.
func eventDate(event *models.Event) string {
	return event.Date.Format("02/01/2006")
}

func welcomeMessage(event *models.Event) string {
	return fmt.Sprintf(
		"Thanks for posting %s on Lenslink! Complete the payment to put your event in front of our photographers.",
		event.Name)
}

func newJobMessage(event *models.Event, clientURL string) string {
	return fmt.Sprintf(
		"New job on Lenslink: %s at %s, %s. First to accept gets it: %s/marketplace",
		event.Name, event.Address, event.City, clientURL)
}

func hostBookingMessage(event *models.Event, photographer *models.User) string {
	return fmt.Sprintf(
		"Good news! %s will photograph %s. You can reach them directly at %s.",
		photographer.DisplayName, event.Name, photographer.PhoneNumber)
}

func photographerBookingMessage(event *models.Event, host *models.User) string {
	return fmt.Sprintf(
		"You're booked for %s on %s at %s, %s %s. Contact %s at %s with any questions.",
		event.Name, eventDate(event), event.Time, event.Address, event.City,
		event.ContactName, host.PhoneNumber)
}

func uploadReminderMessage(event *models.Event) string {
	return fmt.Sprintf(
		"Reminder: please upload the photos from %s within the next 24 hours.",
		event.Name)
}

func deliveredMessage(event *models.Event) string {
	return fmt.Sprintf(
		"The photos from %s are ready! They will stay available for one month, so download them soon.",
		event.Name)
}
