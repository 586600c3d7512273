package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProjectIcon is the glyph name used when a draft has none.
const DefaultProjectIcon = "Sparkles"

// Project is a portfolio entry. Slug is the natural key and is immutable
// after creation.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	Featured    bool               `bson:"featured" json:"featured"`
	LiveURL     string             `bson:"liveUrl,omitempty" json:"liveUrl,omitempty"`
	GithubURL   string             `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	Timeline    string             `bson:"timeline,omitempty" json:"timeline,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	Overview    string             `bson:"overview,omitempty" json:"overview,omitempty"`
	Challenge   string             `bson:"challenge,omitempty" json:"challenge,omitempty"`
	Solution    string             `bson:"solution,omitempty" json:"solution,omitempty"`
	Outcome     string             `bson:"outcome,omitempty" json:"outcome,omitempty"`
	Sections    []Section          `bson:"sections,omitempty" json:"sections,omitempty"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidateForCreate checks required fields and normalizes defaults on a
// project draft. Pure apart from mutating the draft's defaulted fields.
func (p *Project) ValidateForCreate() error {
	if err := requireField("title", p.Title); err != nil {
		return err
	}
	if err := requireField("slug", p.Slug); err != nil {
		return err
	}
	if err := requireField("description", p.Description); err != nil {
		return err
	}
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if err := validateSections(p.Sections); err != nil {
		return err
	}
	if p.Icon == "" {
		p.Icon = DefaultProjectIcon
	}
	return nil
}

// ProjectPatch is a partial update. Nil fields are left untouched; slug is
// deliberately absent because it is immutable after creation.
type ProjectPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Tags        *[]string  `json:"tags"`
	Icon        *string    `json:"icon"`
	Featured    *bool      `json:"featured"`
	LiveURL     *string    `json:"liveUrl"`
	GithubURL   *string    `json:"githubUrl"`
	Role        *string    `json:"role"`
	Timeline    *string    `json:"timeline"`
	Status      *string    `json:"status"`
	Overview    *string    `json:"overview"`
	Challenge   *string    `json:"challenge"`
	Solution    *string    `json:"solution"`
	Outcome     *string    `json:"outcome"`
	Sections    *[]Section `json:"sections"`
	Content     *string    `json:"content"`
}

// Validate runs the create-time field checks on whatever the patch carries.
func (p *ProjectPatch) Validate() error {
	if p.Title != nil {
		if err := requireField("title", *p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := requireField("description", *p.Description); err != nil {
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
func (p *ProjectPatch) SetFields(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.Icon != nil {
		set["icon"] = *p.Icon
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.LiveURL != nil {
		set["liveUrl"] = *p.LiveURL
	}
	if p.GithubURL != nil {
		set["githubUrl"] = *p.GithubURL
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.Timeline != nil {
		set["timeline"] = *p.Timeline
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Overview != nil {
		set["overview"] = *p.Overview
	}
	if p.Challenge != nil {
		set["challenge"] = *p.Challenge
	}
	if p.Solution != nil {
		set["solution"] = *p.Solution
	}
	if p.Outcome != nil {
		set["outcome"] = *p.Outcome
	}
	if p.Sections != nil {
		set["sections"] = *p.Sections
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	return set
}
