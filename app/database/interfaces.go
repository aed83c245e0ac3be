package database

import (
	"github.com/dkotenko/newsdeck/app/news"
)

type ArticleRepository interface {
	CheckDuplicate(sourceURL string) (bool, error)
	InsertArticle(draft news.Draft) (string, bool, error)

	GetFiltered(filters Filters, prefs *PreferenceSet, page int) ([]Article, int, error)
	GetArticle(id string) (*Article, error)
	GetRecommended(category, excludeID string, limit int) ([]Article, error)

	GetCategories() ([]string, error)
	GetSources() ([]string, error)
	GetAuthors() ([]string, error)
	GetArticleCount() (int, error)
}

type PreferencesRepository interface {
	GetPreferences(userID string) (*UserPreferences, error)
	UpsertPreferences(userID, preferences string) (*UserPreferences, error)
}
