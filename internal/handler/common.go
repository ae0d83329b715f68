package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"Cerezo_Blog/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// idParam 非法 id 按 404 处理
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(pkg.ErrNotFound.With("resource not found"))
		return 0, false
	}
	return id, true
}

// bind 绑定失败统一转成 ValidationError
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		_ = c.Error(bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return pkg.ErrValidation.With("invalid request body").Wrap(err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fieldMessage(fe))
	}
	return pkg.ErrValidation.With(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "notblank":
		return name + " is required"
	case "min", "trimmin":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "email":
		return name + " must be a valid email"
	case "eqfield":
		return "passwords do not match"
	case "url":
		return name + " must be a valid url"
	case "excludesall":
		return fmt.Sprintf("%s must not contain %q", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// optionalFile 非 multipart 请求或未上传时返回 nil
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, pkg.ErrValidation.With("invalid multipart form").Wrap(err)
	}
	return fh, nil
}

func files(c *gin.Context, field string) ([]*multipart.FileHeader, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, pkg.ErrValidation.With("invalid multipart form").Wrap(err)
	}
	return form.File[field], nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkg.ErrValidation.With("date must be a valid date")
}
