package form

import (
	"strconv"
	"strings"

	"github.com/blogdesk/internal/db"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PostForm backs both the create and the edit page.
type PostForm struct {
	Title    string `form:"title" json:"title"`
	Category string `form:"category" json:"category"`
	Content  string `form:"content" json:"content"`
	Tags     string `form:"tags" json:"tags"`
}

// PostFormFrom pre-populates the form with an existing post.
func PostFormFrom(post db.Post) PostForm {
	return PostForm{
		Title:    post.Title,
		Category: strconv.FormatUint(uint64(post.CategoryID), 10),
		Content:  post.Content,
		Tags:     strings.Join(post.TagNames(), ", "),
	}
}

// Validate checks the field shapes. Title uniqueness and category existence
// need the database and are reported by the post service.
func (f PostForm) Validate() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("This field is required."),
			validation.RuneLength(1, 255).Error("Ensure this value has at most 255 characters."),
		),
		validation.Field(&f.Category,
			validation.Required.Error("This field is required."),
			validation.Match(digitsOnly).Error("Select a valid choice."),
		),
		validation.Field(&f.Content, notBlank),
		validation.Field(&f.Tags, tagLabels),
	))
}

// CategoryID returns the selected category, or 0 when none parses.
func (f PostForm) CategoryID() uint {
	id, err := strconv.ParseUint(strings.TrimSpace(f.Category), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// TagNames splits the comma separated labels, dropping blanks and duplicates.
func (f PostForm) TagNames() []string {
	return ParseTags(f.Tags)
}

// ParseTags splits a comma separated list of labels.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

// CommentForm is the single textarea below a post.
type CommentForm struct {
	Comment string `form:"comment" json:"comment"`
}

func (f CommentForm) Validate() Errors {
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.Comment, notBlank),
	))
}
