package handler

import (
	"net/http"

	"github.com/edutrack/edutrack-api/pkg/mailer"
	"github.com/gin-gonic/gin"
)

// DevHandler exposes the dev-mode OTP side channel. It is only routed when
// OTP_DEV_MODE is on, so local environments can read codes without a mailbox.
type DevHandler struct {
	sender *mailer.DevSender
}

func NewDevHandler(sender *mailer.DevSender) *DevHandler {
	return &DevHandler{sender: sender}
}

// RecentOTPs godoc
// @Summary List recently issued passcodes (dev mode only)
// @Tags Dev
// @Produce json
// @Success 200 {array} model.DevOTPEntry
// @Router /dev/otp [get]
func (h *DevHandler) RecentOTPs(c *gin.Context) {
	c.JSON(http.StatusOK, h.sender.Recent())
}
