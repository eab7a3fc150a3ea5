// Package web serves the two HTML pages: the public index and the
// signed-in landing page.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"session-gate/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	indexTemplate    = "index.html"
	loggedInTemplate = "loggedin.html"
)

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// Index renders the public page. It is also served at /login, where a failed
// sign-in lands.
func Index(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())
	c.HTML(http.StatusOK, indexTemplate, gin.H{
		"UserID": userID,
		"Failed": c.FullPath() == "/login",
	})
}

// LoggedIn renders the protected landing page. It must sit behind the
// session gate.
func LoggedIn(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())
	c.HTML(http.StatusOK, loggedInTemplate, gin.H{
		"UserID": userID,
	})
}

// Me returns the signed-in user as JSON.
func Me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
	})
}
