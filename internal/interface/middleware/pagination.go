package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

const (
	CtxSkipKey = "skip"
	CtxTakeKey = "take"
	CtxPageKey = "page"
)

// Pagination converts ?page=&limit= into skip/take. page starts at 1; limit is
// capped at maxLimit.
func Pagination(defaultLimit, maxLimit int) gin.HandlerFunc {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return func(c *gin.Context) {
		page, ok := positiveQuery(c, "page", 1)
		if !ok {
			response.Fail(c, http.StatusBadRequest, "page must be a positive integer",
				response.ErrorBody{Kind: apperror.ValidationFailed.String(), Details: map[string]string{"page": "must be a positive integer"}})
			return
		}
		limit, ok := positiveQuery(c, "limit", defaultLimit)
		if !ok {
			response.Fail(c, http.StatusBadRequest, "limit must be a positive integer",
				response.ErrorBody{Kind: apperror.ValidationFailed.String(), Details: map[string]string{"limit": "must be a positive integer"}})
			return
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		c.Set(CtxPageKey, page)
		c.Set(CtxSkipKey, (page-1)*limit)
		c.Set(CtxTakeKey, limit)
		c.Next()
	}
}

func positiveQuery(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PageFrom returns skip and take set by Pagination; take is 0 when the middleware did not run.
func PageFrom(c *gin.Context) (skip, take int) {
	return c.GetInt(CtxSkipKey), c.GetInt(CtxTakeKey)
}
