package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/0x0BSoD/cryptoSentiment/internal/sentiment"
)

const dateLayout = "2006-01-02"

type listParams struct {
	Page      *int   `form:"page" binding:"omitempty,min=1"`
	Limit     *int   `form:"limit" binding:"omitempty,min=1"`
	Sentiment string `form:"sentiment" binding:"omitempty,max=20"`
	Source    string `form:"source" binding:"omitempty,max=200"`
	Asset     string `form:"asset" binding:"omitempty,max=50"`
	Category  string `form:"category" binding:"omitempty,max=100"`
	Chain     string `form:"chain" binding:"omitempty,max=100"`
	Search    string `form:"search" binding:"omitempty,max=200"`
	Days      *int   `form:"days" binding:"omitempty,min=1"`
	OrderBy   string `form:"orderBy" binding:"omitempty,oneof=publishedAt analyzedAt createdAt"`
	Order     string `form:"order" binding:"omitempty,oneof=asc desc"`
}

type limitParams struct {
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

type rangeParams struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// window returns [start of startDate, end of endDate] in UTC; unset bounds stay zero.
func (p rangeParams) window() (from, to time.Time, err error) {
	if p.StartDate != "" {
		if from, err = time.Parse(dateLayout, p.StartDate); err != nil {
			return from, to, fmt.Errorf("invalid startDate: %w", err)
		}
	}
	if p.EndDate != "" {
		day, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return from, to, fmt.Errorf("invalid endDate: %w", err)
		}
		to = day.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, errors.New("invalid endDate: must not be before startDate")
	}
	return from, to, nil
}

type trendParams struct {
	Hours       *int   `form:"hours" binding:"omitempty,min=1"`
	Days        *int   `form:"days" binding:"omitempty,min=1"`
	Granularity string `form:"granularity" binding:"omitempty,oneof=daily hourly"`
}

type rankParams struct {
	Days  *int `form:"days" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

// label parses the optional sentiment filter case-insensitively.
func (p listParams) label() (sentiment.Label, error) {
	if p.Sentiment == "" {
		return "", nil
	}
	l, err := sentiment.LabelFromString(p.Sentiment)
	if err != nil {
		return "", errors.New("invalid sentiment: must be one of BULLISH, BEARISH, NEUTRAL, ERROR")
	}
	return l, nil
}

// value returns the bound parameter or zero when it was absent.
func value(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

var registerTagName sync.Once

// useFormNames makes validation errors report the query parameter name instead of the struct field.
func useFormNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// bindQuery binds and validates query parameters, translating failures to "invalid <field>: ..." messages.
func bindQuery(c *gin.Context, dst any) error {
	err := c.ShouldBindQuery(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("invalid %s: %s", verrs[0].Field(), describe(verrs[0]))
	}

	return fmt.Errorf("invalid query: %w", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	}
	return "failed " + fe.Tag() + " validation"
}
