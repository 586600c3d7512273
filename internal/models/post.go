package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPostAuthor is used when a draft names no author.
const DefaultPostAuthor = "Author"

// Post is a journal entry. Unpublished posts are visible to admin queries
// only.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Excerpt     string             `bson:"excerpt" json:"excerpt"`
	Date        string             `bson:"date" json:"date"` // YYYY-MM-DD
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	ReadingTime string             `bson:"readingTime,omitempty" json:"readingTime,omitempty"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Sections    []Section          `bson:"sections,omitempty" json:"sections,omitempty"`
	Published   bool               `bson:"published" json:"published"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidateForCreate checks required fields and normalizes defaults on a post
// draft: date falls back to today (ISO form), author to DefaultPostAuthor.
func (p *Post) ValidateForCreate() error {
	if err := requireField("title", p.Title); err != nil {
		return err
	}
	if err := requireField("slug", p.Slug); err != nil {
		return err
	}
	if err := requireField("excerpt", p.Excerpt); err != nil {
		return err
	}
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if err := validateSections(p.Sections); err != nil {
		return err
	}
	if p.Date == "" {
		p.Date = isoDate(time.Now())
	}
	if p.Author == "" {
		p.Author = DefaultPostAuthor
	}
	return nil
}

// PostPatch is a partial update; nil fields are untouched and slug is
// immutable, so it has no slot here.
type PostPatch struct {
	Title       *string    `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Date        *string    `json:"date"`
	Category    *string    `json:"category"`
	ReadingTime *string    `json:"readingTime"`
	Content     *string    `json:"content"`
	Sections    *[]Section `json:"sections"`
	Published   *bool      `json:"published"`
	Author      *string    `json:"author"`
}

// Validate runs the create-time field checks on whatever the patch carries.
func (p *PostPatch) Validate() error {
	if p.Title != nil {
		if err := requireField("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Excerpt != nil {
		if err := requireField("excerpt", *p.Excerpt); err != nil {
			return err
		}
	}
	if p.Sections != nil {
		if err := validateSections(*p.Sections); err != nil {
			return err
		}
	}
	return nil
}

// SetFields returns the $set document for the patch. Always stamps updatedAt.
func (p *PostPatch) SetFields(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Excerpt != nil {
		set["excerpt"] = *p.Excerpt
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.ReadingTime != nil {
		set["readingTime"] = *p.ReadingTime
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Sections != nil {
		set["sections"] = *p.Sections
	}
	if p.Published != nil {
		set["published"] = *p.Published
	}
	if p.Author != nil {
		set["author"] = *p.Author
	}
	return set
}
