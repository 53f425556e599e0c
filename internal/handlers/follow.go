package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

type FollowHandler struct {
	feed *services.FeedService
	subs *services.SubscriptionService
	log  *zap.Logger
}

func NewFollowHandler(feed *services.FeedService, subs *services.SubscriptionService, log *zap.Logger) *FollowHandler {
	return &FollowHandler{feed: feed, subs: subs, log: log}
}

// Index lists posts by the authors the current user follows.
func (h *FollowHandler) Index(c *gin.Context) {
	feed, err := h.feed.Followed(c.Request.Context(), middleware.CurrentUser(c), c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"PageTitle": "Posts by authors you follow",
		"Feed":      feed,
	})
}

func (h *FollowHandler) Follow(c *gin.Context) {
	author, _, err := h.subs.FollowUsername(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	author, _, err := h.subs.UnfollowUsername(c.Request.Context(), middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
