package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"beam-website/pkg/cache"
	"beam-website/pkg/logger"
)

const cacheStatusHeader = "X-Cache"

// PageStore keeps rendered pages between revalidations.
type PageStore interface {
	GetCachedPage(ctx context.Context, path string) (*cache.Page, error)
	CachePage(ctx context.Context, path string, page cache.Page, ttl time.Duration) error
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCacheMiddleware serves successful HTML pages from store for ttl after
// they were rendered. Cache failures fall through to rendering.
func PageCacheMiddleware(store PageStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || ttl <= 0 || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		key := pageCacheKey(c.Request)

		page, err := store.GetCachedPage(ctx, key)
		switch {
		case err == nil && page != nil:
			c.Header(cacheStatusHeader, "HIT")
			c.Data(page.Status, "text/html; charset=utf-8", page.Body)
			c.Abort()
			return
		case err != nil && !errors.Is(err, cache.ErrMiss) && !errors.Is(err, cache.ErrCacheDisabled):
			log.WithError(err).WithField("key", key).Warn("Page cache read failed")
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header(cacheStatusHeader, "MISS")
		c.Next()

		if writer.Status() != http.StatusOK || !strings.HasPrefix(writer.Header().Get("Content-Type"), "text/html") {
			return
		}
		entry := cache.Page{Status: writer.Status(), Body: writer.body.Bytes(), RenderedAt: time.Now().UTC()}
		if err := store.CachePage(ctx, key, entry, ttl); err != nil {
			log.WithError(err).WithField("key", key).Warn("Page cache write failed")
		}
	}
}

// pageCacheKey is the request path plus the listing page number. Other query
// parameters do not change the rendered page and are left out of the key.
func pageCacheKey(r *http.Request) string {
	page, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || page <= 1 {
		return r.URL.Path
	}
	return r.URL.Path + "?page=" + strconv.Itoa(page)
}
