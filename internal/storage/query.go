package storage

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "content", "source", "url", "published_at", "analyzed_at", "created_at",
	"sentiment", "sentiment_score", "asset", "category", "chain", "keywords",
}

var windowColumns = []string{
	"published_at", "sentiment_score", "source", "asset", "category", "chain", "keywords",
}

// OrderColumns maps API sort fields to columns.
var OrderColumns = map[string]string{
	"publishedAt": "published_at",
	"analyzedAt":  "analyzed_at",
	"createdAt":   "created_at",
}

// ListFilter narrows an article listing. Zero values mean "no constraint".
type ListFilter struct {
	Sentiment sentiment.Label
	Source    string
	Asset     string
	Category  string
	Chain     string
	Search    string
	Since     time.Time

	OrderBy string
	Asc     bool
	Limit   int
	Offset  int
}

func (f ListFilter) where() sq.And {
	conds := sq.And{}

	if f.Sentiment != "" {
		if lo, hi, ok := sentiment.ScoreRange(f.Sentiment); ok {
			conds = append(conds, sq.Expr("COALESCE(sentiment_score, ?) BETWEEN ? AND ?", sentiment.DefaultScore, lo, hi))
		} else {
			conds = append(conds, sq.Eq{"sentiment": string(f.Sentiment)})
		}
	}

	for _, tag := range []struct{ column, value string }{
		{"source", f.Source},
		{"asset", f.Asset},
		{"category", f.Category},
		{"chain", f.Chain},
	} {
		if tag.value != "" {
			conds = append(conds, sq.Eq{tag.column: tag.value})
		}
	}

	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}

	if !f.Since.IsZero() {
		conds = append(conds, sq.GtOrEq{"published_at": f.Since})
	}

	return conds
}

func (f ListFilter) apply(q sq.SelectBuilder) sq.SelectBuilder {
	if conds := f.where(); len(conds) > 0 {
		q = q.Where(conds)
	}
	return q
}

func (f ListFilter) countQuery() sq.SelectBuilder {
	return f.apply(psql.Select("COUNT(*)").From("articles"))
}

func (f ListFilter) pageQuery() sq.SelectBuilder {
	column, ok := OrderColumns[f.OrderBy]
	if !ok {
		column = "published_at"
	}
	direction := "DESC"
	if f.Asc {
		direction = "ASC"
	}

	q := f.apply(psql.Select(articleColumns...).From("articles")).
		OrderBy(column+" "+direction, "id "+direction)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

func windowQuery(from, to time.Time) sq.SelectBuilder {
	q := psql.Select(windowColumns...).From("articles").Where(sq.GtOrEq{"published_at": from})
	if !to.IsZero() {
		q = q.Where(sq.LtOrEq{"published_at": to})
	}
	return q.OrderBy("published_at ASC")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
