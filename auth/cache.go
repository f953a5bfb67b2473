package auth

import (
	"encoding/json"
	"os"
	"time"
)

// cachedTicket is the on-disk form of a ticket granting ticket.
type cachedTicket struct {
	TGT       string    `json:"tgt"`
	Username  string    `json:"username"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// loadTicket reads a previously saved ticket. It reports false when the
// file is missing, malformed, saved for another user, or expired.
func loadTicket(path, username string, now time.Time) (string, time.Time, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, false
	}
	var c cachedTicket
	if err := json.Unmarshal(data, &c); err != nil {
		return "", time.Time{}, false
	}
	if c.TGT == "" || c.Username != username {
		return "", time.Time{}, false
	}
	if !now.Add(expiryMargin).Before(c.ExpiresAt) {
		return "", time.Time{}, false
	}
	return c.TGT, c.ExpiresAt, true
}

// saveTicket persists the ticket with owner-only permissions.
func saveTicket(path, username, tgt string, expires time.Time) error {
	data, err := json.Marshal(cachedTicket{
		TGT:       tgt,
		Username:  username,
		SavedAt:   time.Now(),
		ExpiresAt: expires,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
