package model

type Fact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Notification is the channel-agnostic content announced after a successful upload.
type Notification struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Facts       []Fact `json:"facts"`
	ActionTitle string `json:"action_title"`
	ActionURL   string `json:"action_url"`
}

const (
	NotificationTitle = "File Upload Notification"
	NotificationText  = "A new file has been uploaded."
	LabelFallback     = "N/A"
)

// NewUploadNotification builds the message sent once per successful upload.
func NewUploadNotification(label, key, url string) Notification {
	if label == "" {
		label = LabelFallback
	}
	return Notification{
		Title: NotificationTitle,
		Text:  NotificationText,
		Facts: []Fact{
			{Title: "Team Name", Value: label},
			{Title: "Filename:", Value: key},
		},
		ActionTitle: "View File",
		ActionURL:   url,
	}
}
