package main

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/static/index.html
var indexHTML []byte

// RegisterWebRoutes serves the bundled upload page. The page is a static
// asset returned verbatim; everything it does goes through the JSON API.
func RegisterWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
	})
}
