package mailer

import (
	"log"
	"sync"
	"time"

	"github.com/edutrack/edutrack-api/internal/model"
)

// devSenderKeep is how many recent codes the dev gateway retains
const devSenderKeep = 5

// DevSender is the delivery gateway for local and preview environments. It
// never sends real email: every delivery succeeds, the code is logged, and
// the last few codes are retained for the dev-only read endpoint.
type DevSender struct {
	mu     sync.Mutex
	recent []model.DevOTPEntry
}

// NewDevSender creates an empty dev gateway
func NewDevSender() *DevSender {
	return &DevSender{}
}

// SendOTP records the code instead of sending it; always succeeds
func (d *DevSender) SendOTP(toEmail, code string, expiryMinutes int) error {
	d.mu.Lock()
	d.recent = append([]model.DevOTPEntry{{
		Email:    toEmail,
		Code:     code,
		IssuedAt: time.Now(),
	}}, d.recent...)
	if len(d.recent) > devSenderKeep {
		d.recent = d.recent[:devSenderKeep]
	}
	d.mu.Unlock()

	log.Printf(`
🔐 DEV MODE OTP
==================
To: %s
Code: %s
Valid: %d min
==================`, toEmail, code, expiryMinutes)
	return nil
}

// Recent returns the retained codes, newest first
func (d *DevSender) Recent() []model.DevOTPEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.DevOTPEntry, len(d.recent))
	copy(out, d.recent)
	return out
}
