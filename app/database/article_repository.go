package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/dkotenko/newsdeck/app/news"
)

// PerPage is the fixed article page size.
const PerPage = 6

const articleColumns = `id, title, content, source, category, published_at,
	       image_url, source_url, author, created_at, updated_at`

// ArticleRepo handles database operations for articles
type ArticleRepo struct {
	db *DB
}

var _ ArticleRepository = (*ArticleRepo)(nil)

func NewArticleRepo(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// CheckDuplicate reports whether an article with the given source URL is
// already persisted. Advisory only: the partial unique index on
// source_url is the authoritative guard under concurrent runs.
func (r *ArticleRepo) CheckDuplicate(sourceURL string) (bool, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM articles WHERE source_url = $1 LIMIT 1`, sourceURL).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

// InsertArticle persists a draft. The second return value is false when
// the insert lost to an existing row with the same source_url.
func (r *ArticleRepo) InsertArticle(draft news.Draft) (string, bool, error) {
	var id string
	err := r.db.QueryRow(`
		INSERT INTO articles (title, content, source, category, published_at, image_url, source_url, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_url) WHERE source_url IS NOT NULL DO NOTHING
		RETURNING id
	`, draft.Title, draft.Content, draft.Source, draft.Category, draft.PublishedAt,
		draft.ImageURL, draft.SourceURL, draft.Author).Scan(&id)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to insert article: %w", err)
	}

	return id, true, nil
}

// buildFilterConditions translates the filter set into SQL conditions
// with positional arguments. When prefs is non-nil the preference
// constraints replace the explicit category/source/author filters;
// keyword and date always compose with either branch. The date condition
// compares calendar days, not instants.
func buildFilterConditions(filters Filters, prefs *PreferenceSet) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if prefs != nil {
		if len(prefs.Sources) > 0 {
			conds = append(conds, "source = ANY("+arg(pq.Array(prefs.Sources))+")")
		}
		if len(prefs.Categories) > 0 {
			conds = append(conds, "category = ANY("+arg(pq.Array(prefs.Categories))+")")
		}
		if len(prefs.Authors) > 0 {
			conds = append(conds, "author = ANY("+arg(pq.Array(prefs.Authors))+")")
		}
	} else {
		if filters.Category != "" {
			conds = append(conds, "category = "+arg(filters.Category))
		}
		if filters.Source != "" {
			conds = append(conds, "source = "+arg(filters.Source))
		}
		if filters.Author != "" {
			conds = append(conds, "author = "+arg(filters.Author))
		}
	}

	if filters.Keyword != "" {
		pattern := "%" + filters.Keyword + "%"
		conds = append(conds, "(title ILIKE "+arg(pattern)+" OR content ILIKE "+arg(pattern)+")")
	}
	if filters.Date != "" {
		conds = append(conds, "published_at::date = "+arg(filters.Date)+"::date")
	}

	return conds, args
}

// GetFiltered returns one page of matching articles plus the total match
// count.
func (r *ArticleRepo) GetFiltered(filters Filters, prefs *PreferenceSet, page int) ([]Article, int, error) {
	conds, args := buildFilterConditions(filters, prefs)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	if page < 1 {
		page = 1
	}
	query := fmt.Sprintf("SELECT %s FROM articles%s ORDER BY published_at DESC LIMIT $%d OFFSET $%d",
		articleColumns, where, len(args)+1, len(args)+2)
	args = append(args, PerPage, (page-1)*PerPage)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get articles: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (r *ArticleRepo) GetArticle(id string) (*Article, error) {
	row := r.db.QueryRow("SELECT "+articleColumns+" FROM articles WHERE id = $1", id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

// GetRecommended returns up to limit other articles from the same
// category, newest first.
func (r *ArticleRepo) GetRecommended(category, excludeID string, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE category = $1 AND id != $2
		ORDER BY published_at DESC
		LIMIT $3
	`, category, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommended articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (r *ArticleRepo) GetCategories() ([]string, error) {
	return r.distinctColumn("category")
}

func (r *ArticleRepo) GetSources() ([]string, error) {
	return r.distinctColumn("source")
}

func (r *ArticleRepo) GetAuthors() ([]string, error) {
	return r.distinctColumn("author")
}

func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

func (r *ArticleRepo) distinctColumn(column string) ([]string, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT DISTINCT %s FROM articles WHERE %s IS NOT NULL", column, column))
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct %s values: %w", column, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", column, err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", column, err)
	}

	return values, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var imageURL, sourceURL, author sql.NullString

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &article.Source, &article.Category,
		&article.PublishedAt, &imageURL, &sourceURL, &author,
		&article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		article.ImageURL = &imageURL.String
	}
	if sourceURL.Valid {
		article.SourceURL = &sourceURL.String
	}
	if author.Valid {
		article.Author = &author.String
	}

	return &article, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	articles := make([]Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}
