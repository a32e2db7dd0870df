package db

import (
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/google/uuid"
)

func MapSiteModelToEntity(model Site, staff []uuid.UUID) *entity.Site {
	return &entity.Site{
		ID:            model.ID,
		Domain:        model.Domain,
		Path:          model.Path,
		AdminID:       model.AdminID,
		Staff:         staff,
		Lang:          model.Lang,
		Timezone:      model.Timezone,
		Title:         model.Title,
		Subtitle:      model.Subtitle,
		Logo:          model.Logo,
		Heading:       model.Heading,
		AllowCrawlers: model.AllowCrawlers,
		AllowTraining: model.AllowTraining,
		Engine:        model.Engine,
		Deployment:    model.Deployment,
		Secure:        model.Secure,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func mapContentCommon(model Content) entity.Content {
	return entity.Content{
		ID:        model.ID,
		SiteID:    model.SiteID,
		Slug:      model.Slug,
		Title:     model.Title,
		Lang:      model.Lang,
		Body:      model.Body,
		Heading:   model.Heading,
		Created:   model.Created,
		Updated:   model.Updated,
		EditCount: model.EditCount,
		WordDelta: model.WordDelta,
	}
}

func MapContentModelToPost(model Content, category *entity.Category) *entity.Post {
	post := &entity.Post{
		Content:       mapContentCommon(model),
		Category:      category,
		AuthorID:      model.AuthorID,
		TranslationOf: model.TranslationOf,
	}
	if model.Draft != nil {
		post.Draft = *model.Draft
	}
	if model.AuthorName != nil {
		post.AuthorName = *model.AuthorName
	}
	if model.Description != nil {
		post.Description = *model.Description
	}
	if model.Punchline != nil {
		post.Punchline = *model.Punchline
	}
	if model.Broadcast != nil {
		post.Broadcast = *model.Broadcast
	}
	return post
}

func MapContentModelToPage(model Content) *entity.Page {
	return &entity.Page{Content: mapContentCommon(model)}
}

func MapPublishModelToEntity(model Publish) *entity.Publish {
	return &entity.Publish{
		ID:       model.ID,
		SiteID:   model.SiteID,
		PostID:   model.PostID,
		Force:    model.Force,
		Purge:    model.Purge,
		Started:  model.Started,
		Finished: model.Finished,
		Success:  model.Success,
		Message:  model.Message,
	}
}
