package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/access"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

type PostHandler struct {
	feed    *services.FeedService
	content *services.ContentService
	subs    *services.SubscriptionService
	groups  *services.GroupService
	log     *zap.Logger
}

func NewPostHandler(feed *services.FeedService, content *services.ContentService, subs *services.SubscriptionService, groups *services.GroupService, log *zap.Logger) *PostHandler {
	return &PostHandler{feed: feed, content: content, subs: subs, groups: groups, log: log}
}

// Index 首页，全站最新帖子
func (h *PostHandler) Index(c *gin.Context) {
	feed, err := h.feed.Global(c.Request.Context(), c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "posts/index.html", gin.H{
		"PageTitle": "Latest updates",
		"Feed":      feed,
	})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	feed, err := h.feed.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"PageTitle": "Posts of group " + feed.Group.Title,
		"Feed":      feed,
	})
}

func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	feed, err := h.feed.Author(ctx, c.Param("username"), c.Query("page"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	following, err := h.subs.IsFollowing(ctx, middleware.CurrentUser(c), feed.Author)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	stats, err := h.subs.Stats(ctx, feed.Author)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"PageTitle": "Profile of @" + feed.Author.Username,
		"Feed":      feed,
		"Following": following,
		"Stats":     stats,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	detail, err := h.content.Detail(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"PageTitle": "Post " + detail.Post.String(),
		"Detail":    detail,
		"CanEdit":   access.CanModify(middleware.CurrentUser(c), detail.Post),
	})
}

// renderPostForm 渲染新建/编辑表单
func (h *PostHandler) renderPostForm(c *gin.Context, code int, form services.PostInput, errs map[string]string, postID uint) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	data := gin.H{
		"PageTitle": "New post",
		"Action":    "/create/",
		"Form":      form,
		"Groups":    groups,
		"IsEdit":    postID != 0,
	}
	if postID != 0 {
		data["PageTitle"] = "Edit post"
		data["Action"] = postURL(postID) + "edit/"
	}
	if errs != nil {
		data["Errors"] = errs
	}
	Render(c, code, "posts/create_post.html", data)
}

// bindPost reads the post form, including an optional image upload.
func bindPost(c *gin.Context) (services.PostInput, error) {
	var in services.PostInput
	if err := c.ShouldBind(&in); err != nil {
		return in, err
	}
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil
	}
	if err != nil {
		return in, err
	}
	f, err := file.Open()
	if err != nil {
		return in, err
	}
	defer f.Close()
	// 多读一个字节，超限交给 MediaStore.Check 报错
	data, err := io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
	if err != nil {
		return in, err
	}
	in.Image = data
	return in, nil
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, services.PostInput{}, nil, 0)
}

func (h *PostHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	in, err := bindPost(c)
	if err != nil {
		h.renderPostForm(c, http.StatusBadRequest, in, map[string]string{"image": "The submitted file is invalid."}, 0)
		return
	}
	if _, err := h.content.CreatePost(c.Request.Context(), actor, in); err != nil {
		if ve, ok := services.AsValidation(err); ok {
			h.renderPostForm(c, http.StatusBadRequest, in, ve.Fields, 0)
			return
		}
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(actor.Username))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	post, err := h.content.GetPost(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if !access.CanModify(middleware.CurrentUser(c), post) {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}
	form := services.PostInput{Text: post.Text}
	if post.GroupID != nil {
		form.Group = fmt.Sprint(*post.GroupID)
	}
	h.renderPostForm(c, http.StatusOK, form, nil, post.ID)
}

func (h *PostHandler) Update(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	in, err := bindPost(c)
	if err != nil {
		h.renderPostForm(c, http.StatusBadRequest, in, map[string]string{"image": "The submitted file is invalid."}, id)
		return
	}
	_, err = h.content.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), id, in)
	err = settleCleanup(c, h.log, err)
	switch {
	case err == nil, errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, postURL(id))
	default:
		if ve, ok := services.AsValidation(err); ok {
			h.renderPostForm(c, http.StatusBadRequest, in, ve.Fields, id)
			return
		}
		handleError(c, h.log, err)
	}
}

func (h *PostHandler) Delete(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	post, err := h.content.DeletePost(c.Request.Context(), middleware.CurrentUser(c), id)
	err = settleCleanup(c, h.log, err)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, profileURL(post.Author.Username))
	case errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, postURL(id))
	default:
		handleError(c, h.log, err)
	}
}

// AddComment 无效评论直接忽略，回到详情页
func (h *PostHandler) AddComment(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	var in services.CommentInput
	_ = c.ShouldBind(&in)
	_, err := h.content.AddComment(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		if _, ok := services.AsValidation(err); !ok {
			handleError(c, h.log, err)
			return
		}
	}
	c.Redirect(http.StatusFound, postURL(id))
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		NotFound(c)
		return
	}
	postID, err := h.content.DeleteComment(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil && !errors.Is(err, services.ErrForbidden) {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}
