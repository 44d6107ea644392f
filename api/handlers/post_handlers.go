package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"posts-api/dto"
	"posts-api/services"
)

// CreatePostHandler godoc
// @Summary      Create post
// @Description  Create a new unpublished post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePostRequest  true  "Post to create"
// @Success      201   {object}  dto.PostDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /posts [post]
func CreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}

		post, err := svc.Create(c.Request.Context(), services.CreatePostInput{
			Title:   req.Title,
			Content: req.Content,
			Tags:    req.Tags,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List posts with filters and pagination, ordered by id
// @Tags         posts
// @Produce      json
// @Param        title      query  string    false  "Case-insensitive substring of the title"
// @Param        from       query  string    false  "Created at or after (RFC 3339 or YYYY-MM-DD)"
// @Param        to         query  string    false  "Created at or before (RFC 3339 or YYYY-MM-DD)"
// @Param        published  query  bool      false  "Published flag"
// @Param        tags       query  []string  false  "Tags (OR match)"  collectionFormat(multi)
// @Param        page       query  int       false  "Page number (1-based)"
// @Param        limit      query  int       false  "Page size (<=100)"
// @Success      200  {object}  dto.PaginationPostDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.ListPostsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortBadRequest(c, err)
			return
		}
		criteria, err := q.ToCriteria()
		if err != nil {
			writeError(c, err)
			return
		}

		page, err := svc.FindAll(c.Request.Context(), criteria)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPostHandler godoc
// @Summary      Get post by id
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  dto.PostDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePostID(c)
		if !ok {
			return
		}
		post, err := svc.FindOne(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// UpdatePostHandler godoc
// @Summary      Update post
// @Description  Partially update a post. Absent fields keep their stored value.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Post id"
// @Param        body  body      dto.UpdatePostRequest  true  "Fields to change"
// @Success      200   {object}  dto.PostDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [patch]
func UpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePostID(c)
		if !ok {
			return
		}
		var req dto.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortBadRequest(c, err)
			return
		}

		in := services.UpdatePostInput{
			Title:     req.Title,
			Content:   req.Content,
			Published: req.Published,
		}
		if req.Tags != nil {
			in.Tags = &req.Tags
		}

		post, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// DeletePostHandler godoc
// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post id"
// @Success      200  {object}  dto.DeleteResultDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [delete]
func DeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parsePostID(c)
		if !ok {
			return
		}
		res, err := svc.Remove(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
