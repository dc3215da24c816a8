package utils

import (
	"fmt"
	"html"
)

// Sujet et corps des notifications d'offre envoyées aux membres d'un venue
const OfferNotificationSubject = "New Offer Available"

// OfferNotificationText est le texte brut de la notification (aussi utilisé
// comme fallback par les clients mail sans HTML)
func OfferNotificationText(title string) string {
	return fmt.Sprintf("Check out our latest offer: %s", title)
}

// GenerateOfferHTML génère le corps HTML de la notification d'offre
func GenerateOfferHTML(title string) string {
	safeTitle := html.EscapeString(title)

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>New Offer Available</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">🎟️ New Offer Available</h2>
		<p>Check out our latest offer: <strong>%s</strong></p>
		<p style="margin-top: 30px; color: #555;">
			See you soon,<br>
			<strong>The DQTicket team</strong>
		</p>
	</div>
</body>
</html>`, safeTitle)
}
