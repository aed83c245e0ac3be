package api

import (
	"github.com/dkotenko/newsdeck/app/cache"
	"github.com/dkotenko/newsdeck/app/database"
)

type Handler struct {
	articleRepo database.ArticleRepository
	prefsRepo   database.PreferencesRepository
	cache       cache.ListCache
}

// PaginatedResponse is the article listing envelope.
type PaginatedResponse struct {
	CurrentPage int                `json:"current_page"`
	Data        []database.Article `json:"data"`
	From        int                `json:"from"`
	To          int                `json:"to"`
	LastPage    int                `json:"last_page"`
	PerPage     int                `json:"per_page"`
	Total       int                `json:"total"`
}

func NewPaginatedResponse(articles []database.Article, page, total int) PaginatedResponse {
	lastPage := (total + database.PerPage - 1) / database.PerPage
	if lastPage < 1 {
		lastPage = 1
	}

	from := 0
	to := 0
	if len(articles) > 0 {
		from = (page-1)*database.PerPage + 1
		to = from + len(articles) - 1
	}

	if articles == nil {
		articles = make([]database.Article, 0)
	}

	return PaginatedResponse{
		CurrentPage: page,
		Data:        articles,
		From:        from,
		To:          to,
		LastPage:    lastPage,
		PerPage:     database.PerPage,
		Total:       total,
	}
}

type savePreferencesRequest struct {
	Preferences string `json:"preferences" binding:"required"`
}
