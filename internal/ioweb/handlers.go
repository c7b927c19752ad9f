package ioweb

import (
	"net/http"
	"strings"

	"github.com/fayvad/fbs/internal/iointegration"
	app "github.com/fayvad/fbs/pkg"
	"github.com/fayvad/fbs/pkg/requirements"
	"github.com/fayvad/fbs/pkg/schema"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc Service
}

// setupBody is the JSON body of a setup request.
type setupBody struct {
	SolutionName   string                     `json:"solution_name"   binding:"required,solution_name"`
	Domain         string                     `json:"domain"          binding:"required"`
	Requirements   requirements.Request       `json:"requirements"`
	DatabaseConfig schema.DatabaseCredentials `json:"database_config"`
	Resume         bool                       `json:"resume"`
}

type operationBody struct {
	OperationType string `json:"operation_type" binding:"required"`
}

func ok(c *gin.Context, status int, key string, v any) {
	c.JSON(status, gin.H{"success": true, key: v})
}

// bindError attaches a malformed body error to the request.
func bindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
}

func (h handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "ok",
		"version": app.Version,
	})
}

func (h handler) cachedDiscovery(c *gin.Context) {
	res, err := h.svc.CachedDiscovery(
		c.Request.Context(), c.Param("domain"), c.Param("type"), c.Query("name"),
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "discovery", res)
}

func (h handler) refreshDiscovery(c *gin.Context) {
	res, err := h.svc.RefreshDiscovery(
		c.Request.Context(), c.Param("domain"), c.Param("type"),
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "discovery", res)
}

func (h handler) phase1(c *gin.Context) {
	res, err := h.svc.Phase1MetadataDiscovery(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "metadata", res)
}

func (h handler) setup(c *gin.Context) {
	var body setupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	req := iointegration.SetupRequest{
		SolutionName:   body.SolutionName,
		Domain:         body.Domain,
		Requirements:   body.Requirements,
		DatabaseConfig: body.DatabaseConfig,
		Resume:         body.Resume,
	}
	res, err := h.svc.Phase2CompleteSetup(c.Request.Context(), req)
	if err != nil {
		if res != nil {
			c.Set(resultKey, res)
		}
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusCreated, "setup", res)
}

func (h handler) listSolutions(c *gin.Context) {
	res, err := h.svc.ListSolutions(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"solutions": res,
		"count":     len(res),
	})
}

func (h handler) status(c *gin.Context) {
	res, err := h.svc.SolutionStatus(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "status", res)
}

func (h handler) migrate(c *gin.Context) {
	res, err := h.svc.MigrateSolutionSchema(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "migration", res)
}

func (h handler) discoveries(c *gin.Context) {
	res, err := h.svc.SolutionDiscoveries(c.Request.Context(), c.Param("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "discoveries", res)
}

func (h handler) operation(c *gin.Context) {
	var body operationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.svc.SolutionOperations(
		c.Request.Context(), c.Param("name"), body.OperationType,
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "operation", res)
}

func (h handler) apis(c *gin.Context) {
	var models []string
	for m := range strings.SplitSeq(c.Query("models"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	res, err := h.svc.GenerateAPIs(
		c.Request.Context(), c.Param("name"), c.Query("domain"), models,
	)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "api", res)
}
