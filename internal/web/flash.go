package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "user_directory_flash"

// Flash is a one-shot notification carried across a redirect.
type Flash struct {
	Kind    string `json:"kind"` // success or error
	Message string `json:"message"`
}

func setFlash(c *gin.Context, kind, message string) {
	raw, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", false, true)
}

// popFlash reads and clears the pending notification, if any.
func popFlash(c *gin.Context) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	if f.Kind != "success" {
		f.Kind = "error"
	}
	return &f
}
