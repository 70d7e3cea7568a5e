// Package legacyroute exposes the legacy-bridge paged search facade over
// HTTP for downstream consumers still on the pre-federation contract (spec
// §4.7).
package legacyroute

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scholarfed/engine/app/domain/legacy"
	"github.com/scholarfed/engine/app/interfaces/http/middleware"
)

// LegacyAPI exposes the legacy bridge's paged search over HTTP.
type LegacyAPI struct {
	bridge *legacy.Bridge
}

// NewLegacyAPI builds the legacy route handler.
func NewLegacyAPI(bridge *legacy.Bridge) *LegacyAPI {
	return &LegacyAPI{bridge: bridge}
}

func (l *LegacyAPI) RegisterRouter(router gin.IRouter) {
	group := router.Group("/legacy", middleware.BearerAuthMiddleware())
	group.GET("/search", l.Search)
}

// Search exposes legacy/paged semantics: the bridge recovers from panics
// and swallows provider errors into an empty result (spec §4.7).
//
// @Summary Legacy paged search
// @Description Exercises the legacy bridge's bounded, string-keyed-filter search shape for pre-federation consumers.
// @Tags Legacy
// @Security BearerAuth
// @Produce json
// @Param q query string true "search query"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Param from_year query string false "legacy filter: minimum publication year"
// @Param to_year query string false "legacy filter: maximum publication year"
// @Param has_pdf query string false "legacy filter: restrict to results with a PDF URL"
// @Param open_access query string false "legacy filter: restrict to open-access works"
// @Router /v1/legacy/search [get]
func (l *LegacyAPI) Search(c *gin.Context) {
	query := c.Query("q")
	limit := 25
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	legacyFilters := make(map[string]string)
	for _, key := range []string{"from_year", "to_year", "has_pdf", "open_access"} {
		if v := c.Query(key); v != "" {
			legacyFilters[key] = v
		}
	}

	result := l.bridge.Search(c.Request.Context(), query, limit, offset, legacyFilters)
	c.JSON(http.StatusOK, gin.H{
		"documents":    result.Documents,
		"has_more":     result.HasMore,
		"elapsed_time": result.ElapsedTime.String(),
	})
}
