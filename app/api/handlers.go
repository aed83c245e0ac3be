package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkotenko/newsdeck/app/cache"
	"github.com/dkotenko/newsdeck/app/database"
)

// vocabularyCacheTTL bounds staleness of the cached filter vocabulary
// lists. New vocabulary values appear as new articles are ingested, so a
// short TTL is enough.
const vocabularyCacheTTL = 5 * time.Minute

// NewHandler creates an API handler. listCache may be nil, which
// disables read-side caching.
func NewHandler(articleRepo database.ArticleRepository, prefsRepo database.PreferencesRepository,
	listCache cache.ListCache) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		prefsRepo:   prefsRepo,
		cache:       listCache,
	}
}

// cachedVocabulary serves a vocabulary list through the cache when one
// is configured. Cache failures fall back to the database.
func (h *Handler) cachedVocabulary(key string, fetch func() ([]string, error)) ([]string, error) {
	if h.cache != nil {
		if values, hit, err := h.cache.GetList(key); err != nil {
			slog.Warn("Cache read failed", "key", key, "error", err)
		} else if hit {
			return values, nil
		}
	}

	values, err := fetch()
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetList(key, values, vocabularyCacheTTL); err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		}
	}

	return values, nil
}

func (h *Handler) GetArticles(c *gin.Context) {
	filters := database.Filters{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
		Author:   c.Query("author"),
		Date:     c.Query("date"),
	}

	// The date filter is cast to a calendar day in SQL; anything that is
	// not a date must be rejected here rather than surface as a query
	// failure.
	if filters.Date != "" {
		if _, err := time.Parse("2006-01-02", filters.Date); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The date filter must be a valid date"})
			return
		}
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	// Stored preferences apply only for authenticated callers that sent
	// no explicit category/source/author filter; explicit filters always
	// win. Keyword and date compose with either branch.
	var prefs *database.PreferenceSet
	if userID := CurrentUserID(c); userID != "" && !filters.HasExplicit() {
		stored, err := h.prefsRepo.GetPreferences(userID)
		if err != nil {
			slog.Error("Database error", "operation", "get_preferences", "user", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve articles"})
			return
		}
		if stored != nil {
			prefs, err = database.ParsePreferenceSet(stored.Preferences)
			if err != nil {
				slog.Warn("Malformed preference blob, ignoring", "user", userID, "error", err)
				prefs = nil
			}
		}
	}

	articles, total, err := h.articleRepo.GetFiltered(filters, prefs, page)
	if err != nil {
		slog.Error("Database error", "operation", "get_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve articles"})
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(articles, page, total))
}

func (h *Handler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.articleRepo.GetArticle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve articles"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	recommended, err := h.articleRepo.GetRecommended(article.Category, article.ID, 3)
	if err != nil {
		slog.Error("Database error", "operation", "get_recommended", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article":     article,
		"recommended": recommended,
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.cachedVocabulary("vocabulary:categories", h.articleRepo.GetCategories)
	if err != nil {
		slog.Error("Database error", "operation", "get_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetSources(c *gin.Context) {
	sources, err := h.cachedVocabulary("vocabulary:sources", h.articleRepo.GetSources)
	if err != nil {
		slog.Error("Database error", "operation", "get_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve sources"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

func (h *Handler) GetAuthors(c *gin.Context) {
	authors, err := h.cachedVocabulary("vocabulary:authors", h.articleRepo.GetAuthors)
	if err != nil {
		slog.Error("Database error", "operation", "get_authors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve authors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	userID := CurrentUserID(c)

	prefs, err := h.prefsRepo.GetPreferences(userID)
	if err != nil {
		slog.Error("Database error", "operation", "get_preferences", "user", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve preferences"})
		return
	}
	if prefs == nil {
		c.JSON(http.StatusOK, gin.H{"preferences": nil})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) SavePreferences(c *gin.Context) {
	userID := CurrentUserID(c)

	var req savePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The preferences field is required"})
		return
	}

	// The blob stays opaque in storage but must at least parse into the
	// typed shape before it is accepted.
	if _, err := database.ParsePreferenceSet(req.Preferences); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The preferences field must be valid JSON"})
		return
	}

	prefs, err := h.prefsRepo.UpsertPreferences(userID, req.Preferences)
	if err != nil {
		slog.Error("Database error", "operation", "save_preferences", "user", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	if h.cache != nil {
		health["cache"] = h.cache.Health()
	}

	c.JSON(http.StatusOK, health)
}
