package mail

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("noreply@schoolinventory.com", "ada@example.com", "Inventory Return Reminder: Microscope", "Please return it."))

	for _, want := range []string{
		"From: noreply@schoolinventory.com\r\n",
		"To: ada@example.com\r\n",
		"Subject: Inventory Return Reminder: Microscope\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing header %q", want)
		}
	}

	// Exactly one blank line separates headers from body.
	parts := strings.SplitN(msg, "\r\n\r\n", 2)
	if len(parts) != 2 {
		t.Fatalf("no header/body separator in %q", msg)
	}
	if parts[1] != "Please return it.\r\n" {
		t.Fatalf("body = %q", parts[1])
	}
}

func TestSend_UnreachableRelay(t *testing.T) {
	m := &SMTPMailer{Host: "127.0.0.1", Port: "1", From: "noreply@schoolinventory.com"}
	err := m.Send("ada@example.com", "subject", "body")
	if err == nil {
		t.Fatalf("expected connection error from dead relay")
	}
	if !strings.Contains(err.Error(), "smtp send to ada@example.com") {
		t.Fatalf("error should name the recipient: %v", err)
	}
}
