package model

import "testing"

func TestNewUploadNotification(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantLabel string
	}{
		{"with label", "Blue Team", "Blue Team"},
		{"without label", "", "N/A"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NewUploadNotification(tc.label, "report-1.pdf", "https://x/y?sig=1")

			if n.Title != NotificationTitle || n.Text != NotificationText {
				t.Errorf("unexpected title/text: %q / %q", n.Title, n.Text)
			}
			if len(n.Facts) != 2 {
				t.Fatalf("expected 2 facts, got %d", len(n.Facts))
			}
			if n.Facts[0] != (Fact{Title: "Team Name", Value: tc.wantLabel}) {
				t.Errorf("facts[0] = %+v", n.Facts[0])
			}
			if n.Facts[1] != (Fact{Title: "Filename:", Value: "report-1.pdf"}) {
				t.Errorf("facts[1] = %+v", n.Facts[1])
			}
			if n.ActionTitle != "View File" || n.ActionURL != "https://x/y?sig=1" {
				t.Errorf("unexpected action %q -> %q", n.ActionTitle, n.ActionURL)
			}
		})
	}
}
