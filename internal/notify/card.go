package notify

import "github.com/fhuszti/upload-relay-go/internal/model"

const (
	cardContentType = "application/vnd.microsoft.card.adaptive"
	cardSchema      = "http://adaptivecards.io/schemas/adaptive-card.json"
	cardVersion     = "1.2"
)

type teamsMessage struct {
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	ContentType string       `json:"contentType"`
	ContentURL  *string      `json:"contentUrl"`
	Content     adaptiveCard `json:"content"`
}

type adaptiveCard struct {
	Schema  string        `json:"$schema"`
	Type    string        `json:"type"`
	Version string        `json:"version"`
	Body    []cardElement `json:"body"`
	Actions []cardAction  `json:"actions,omitempty"`
}

type cardElement struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Weight string       `json:"weight,omitempty"`
	Size   string       `json:"size,omitempty"`
	Wrap   bool         `json:"wrap,omitempty"`
	Facts  []model.Fact `json:"facts,omitempty"`
}

type cardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func buildCard(msg model.Notification) teamsMessage {
	card := adaptiveCard{
		Schema:  cardSchema,
		Type:    "AdaptiveCard",
		Version: cardVersion,
		Body: []cardElement{
			{Type: "TextBlock", Text: msg.Title, Weight: "Bolder", Size: "Large"},
			{Type: "TextBlock", Text: msg.Text, Wrap: true},
			{Type: "FactSet", Facts: msg.Facts},
		},
	}
	if msg.ActionURL != "" {
		card.Actions = []cardAction{{Type: "Action.OpenUrl", Title: msg.ActionTitle, URL: msg.ActionURL}}
	}
	return teamsMessage{Attachments: []attachment{{ContentType: cardContentType, Content: card}}}
}
