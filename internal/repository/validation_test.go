package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"", true},
		{"/images/broom.jpg", true},
		{"https://res.cloudinary.com/demo/image/upload/broom.jpg", true},
		{"http://example.com/a.png", true},
		{`C:\Users\me\broom.jpg`, false},
		{"C:/Users/me/broom.jpg", false},
		{"file:///home/me/broom.jpg", false},
		{"./broom.jpg", false},
		{"../images/broom.jpg", false},
		{`images\broom.jpg`, false},
		{"//cdn.example.com/a.jpg", false},
		{"broom.jpg", false},
		{"ftp://example.com/a.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidImageRef(tt.ref))
		})
	}
}

func TestValidator_Product(t *testing.T) {
	v := NewValidator()

	valid := Product{Name: "Broom", Category: "Brooms", Code: "B1", Image: "/images/b.jpg"}
	assert.NoError(t, v.Struct(&valid))

	missing := Product{Name: "Broom"}
	assert.Error(t, v.Struct(&missing))

	local := Product{Name: "Broom", Category: "Brooms", Code: "B1", Image: "./b.jpg"}
	assert.Error(t, v.Struct(&local))
}

func TestValidateBlog_ChecksSections(t *testing.T) {
	v := NewValidator()

	blog := Blog{Title: "t", Date: "2024-01-01", Sections: Sections{YouTubeSection{}}}
	assert.Error(t, ValidateBlog(v, &blog))

	blog.Sections = Sections{YouTubeSection{VideoID: "abc123"}}
	assert.NoError(t, ValidateBlog(v, &blog))
}
