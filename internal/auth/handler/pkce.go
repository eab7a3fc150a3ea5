package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/gin-gonic/gin"

	"session-gate/internal/utils"
)

const pkceCookieName = "__oauth_pkce"

// challengeFor derives the S256 code challenge.
func challengeFor(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (f flowCookies) generatePKCE(c *gin.Context) (verifier string, challenge string, err error) {
	verifier, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}
	f.set(c, pkceCookieName, verifier)
	return verifier, challengeFor(verifier), nil
}

func (f flowCookies) pkceVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
