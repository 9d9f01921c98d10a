package repository

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the storefront's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return IsValidImageRef(fl.Field().String())
	})
	return v
}

// IsValidImageRef accepts root-relative paths and absolute http(s) URLs.
// Local filesystem paths such as C:\..., file://..., ./x or ../x are rejected.
func IsValidImageRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return true
	}
	if strings.Contains(ref, `\`) {
		return false
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "file:") || strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		return false
	}
	if len(ref) >= 2 && ref[1] == ':' {
		// drive letter
		return false
	}
	if strings.HasPrefix(ref, "/") {
		return !strings.HasPrefix(ref, "//")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateBlog runs struct validation plus section checks.
func ValidateBlog(v *validator.Validate, b *Blog) error {
	if err := v.Struct(b); err != nil {
		return err
	}
	return b.Sections.Validate()
}

// ValidateDocument validates every record of a snapshot document.
func ValidateDocument(v *validator.Validate, doc *DataDocument) error {
	if err := v.Struct(doc); err != nil {
		return err
	}
	for i := range doc.Blogs {
		if err := doc.Blogs[i].Sections.Validate(); err != nil {
			return err
		}
	}
	if doc.Settings != nil {
		if err := v.Struct(doc.Settings); err != nil {
			return err
		}
	}
	return nil
}
