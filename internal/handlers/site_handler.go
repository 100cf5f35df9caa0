package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	site *Site
}

func NewSiteHandler(site *Site) *SiteHandler {
	return &SiteHandler{site: site}
}

func (h *SiteHandler) Home(c *gin.Context) {
	h.write(c, h.site.Home(c.Request.Context()))
}

func (h *SiteHandler) Page(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	h.write(c, h.site.Page(c.Request.Context(), slug))
}

// Blog serves /blog?page=N. A missing or invalid page number means page 1.
func (h *SiteHandler) Blog(c *gin.Context) {
	h.write(c, h.site.Blog(c.Request.Context(), parsePage(c.Query("page"))))
}

// BlogPage serves the path form used by static exports, /blog/page/N.
func (h *SiteHandler) BlogPage(c *gin.Context) {
	h.write(c, h.site.Blog(c.Request.Context(), parsePage(c.Param("page"))))
}

func (h *SiteHandler) Post(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	h.write(c, h.site.Post(c.Request.Context(), slug))
}

func (h *SiteHandler) Contact(c *gin.Context) {
	h.write(c, h.site.Contact(c.Request.Context()))
}

func (h *SiteHandler) NotFound(c *gin.Context) {
	h.write(c, h.site.NotFound(c.Request.Context(), nil))
}

func (h *SiteHandler) write(c *gin.Context, r Rendered) {
	if r.Status == http.StatusNotFound {
		c.Header("X-Robots-Tag", "noindex, nofollow")
	}
	c.Data(r.Status, "text/html; charset=utf-8", r.Body)
}

func parsePage(value string) int {
	page, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
