package ioweb

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gin-gonic/gin"
	"github.com/gnames/gn"
	"github.com/go-playground/validator/v10"
)

// resultKey keeps a partial result that is sent together with an error.
const resultKey = "fbs_result"

var (
	badRequest = map[gn.ErrorCode]bool{
		errcode.InvalidSolutionConfigError: true,
		errcode.UnknownOperationError:      true,
		errcode.UnknownDiscoveryTypeError:  true,
		errcode.UnknownIndustryError:       true,
		errcode.RequirementsMalformedError: true,
	}
	notFound = map[gn.ErrorCode]bool{
		errcode.StoreNotFoundError:    true,
		errcode.SolutionNotFoundError: true,
	}
	emTags = strings.NewReplacer("<em>", "", "</em>", "")
)

// ErrorHandler converts the last error of a request into a JSON response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		status, msg := errorStatus(last)
		if status == http.StatusInternalServerError {
			slog.Error("Request failed", "path", c.Request.URL.Path, "error", last.Err)
		} else {
			slog.Warn("Bad request", "path", c.Request.URL.Path, "error", last.Err)
		}
		if c.Writer.Written() {
			return
		}
		body := gin.H{"success": false, "error": msg}
		if res, ok := c.Get(resultKey); ok {
			body["result"] = res
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func errorStatus(ge *gin.Error) (int, string) {
	var vErrs validator.ValidationErrors
	if errors.As(ge.Err, &vErrs) {
		fields := make([]string, len(vErrs))
		for i, fe := range vErrs {
			fields[i] = fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		}
		return http.StatusBadRequest, "invalid fields: " + strings.Join(fields, ", ")
	}
	if ge.IsType(gin.ErrorTypeBind) {
		return http.StatusBadRequest, ge.Err.Error()
	}

	var gnErr *gn.Error
	if !errors.As(ge.Err, &gnErr) {
		return http.StatusInternalServerError, ge.Err.Error()
	}
	msg := emTags.Replace(fmt.Sprintf(gnErr.Msg, gnErr.Vars...))
	code := gnErr.Code
	// a failed setup step gets the status of its cause
	var cause *gn.Error
	if code == errcode.SetupStepError && errors.As(gnErr.Err, &cause) {
		code = cause.Code
	}
	switch {
	case badRequest[code]:
		return http.StatusBadRequest, msg
	case notFound[code]:
		return http.StatusNotFound, msg
	default:
		return http.StatusInternalServerError, msg
	}
}
