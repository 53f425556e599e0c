package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func AboutAuthor(c *gin.Context) {
	Render(c, http.StatusOK, "about/author.html", gin.H{"PageTitle": "About the author"})
}

func AboutTech(c *gin.Context) {
	Render(c, http.StatusOK, "about/tech.html", gin.H{"PageTitle": "Technologies"})
}
