package handler

import (
	"encoding/base64"
	"fmt"
	"net"
	"net/http"

	"github.com/eduscope/eduscope-backend/internal/config"
	"github.com/eduscope/eduscope-backend/internal/response"
	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// DiscoveryHandler serves the LAN discovery endpoints: students on the
// classroom network scan a QR code to reach the server.
type DiscoveryHandler struct {
	cfg *config.Config
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(cfg *config.Config) *DiscoveryHandler {
	return &DiscoveryHandler{cfg: cfg}
}

// QRCode godoc
// GET /api/qrcode
// Returns the server's LAN URL and a base64 PNG QR code for it.
func (h *DiscoveryHandler) QRCode(c *gin.Context) {
	url := h.serverURL()

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"url":    url,
		"qrcode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

// QRCodePNG godoc
// GET /qrcode.png
// Serves the discovery QR code as a raw PNG, for printing or projecting.
func (h *DiscoveryHandler) QRCodePNG(c *gin.Context) {
	png, err := qrcode.Encode(h.serverURL(), qrcode.Medium, 512)
	if err != nil {
		failFromService(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *DiscoveryHandler) serverURL() string {
	if h.cfg.PublicURL != "" {
		return h.cfg.PublicURL
	}
	return fmt.Sprintf("http://%s:%s", lanIP(), h.cfg.ServerPort)
}

// lanIP picks the first non-loopback IPv4 address on an interface that is
// up. Falls back to localhost when the host has no usable interface.
func lanIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return "localhost"
}
