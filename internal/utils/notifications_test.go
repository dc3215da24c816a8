package utils

import (
	"strings"
	"testing"
)

func TestOfferNotificationText(t *testing.T) {
	got := OfferNotificationText("Summer Sale")
	want := "Check out our latest offer: Summer Sale"
	if got != want {
		t.Errorf("texte = %q, attendu %q", got, want)
	}
}

func TestGenerateOfferHTMLEscapesTitle(t *testing.T) {
	html := GenerateOfferHTML(`<script>alert("x")</script>`)
	if strings.Contains(html, "<script>") {
		t.Errorf("titre non échappé: %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("échappement HTML absent: %s", html)
	}
}
