package service

import (
	"Parchment/internal/api/dto"
	"Parchment/internal/model"
	"Parchment/internal/pkg/consts"
	"Parchment/internal/pkg/minio"
	"Parchment/internal/pkg/ranking"

	"github.com/jinzhu/copier"
)

func toArticleDTO(article *model.Article) *dto.ArticleDTO {
	item := &dto.ArticleDTO{}
	_ = copier.Copy(item, article)
	item.Thumbnail = minio.GetPublicURL(article.Thumbnail)
	item.Author = toAuthorDTO(article.Author)
	item.Categories = make([]*dto.CategoryDTO, 0, len(article.Categories))
	for i := range article.Categories {
		item.Categories = append(item.Categories, toCategoryDTO(&article.Categories[i]))
	}
	return item
}

func toAuthorDTO(user *model.User) *dto.AuthorDTO {
	if user == nil {
		return nil
	}
	author := &dto.AuthorDTO{}
	_ = copier.Copy(author, user)
	avatar := user.Avatar
	if avatar == "" {
		avatar = consts.DefaultAvatarURL
	}
	author.Avatar = minio.GetPublicURL(avatar)
	return author
}

func toCategoryDTO(category *model.Category) *dto.CategoryDTO {
	item := &dto.CategoryDTO{}
	_ = copier.Copy(item, category)
	item.Thumbnail = minio.GetPublicURL(category.Thumbnail)
	return item
}

func toCategoryDTOs(categories []*model.Category) []*dto.CategoryDTO {
	items := make([]*dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		items = append(items, toCategoryDTO(c))
	}
	return items
}

func toArticleCandidate(article *model.Article) ranking.Candidate {
	return ranking.Candidate{
		ID:         article.ID,
		Categories: article.CategoryIDs(),
		Popularity: article.Views,
		CreatedAt:  article.CreatedAt,
	}
}
