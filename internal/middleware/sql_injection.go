package middleware

import (
	"regexp"
	"strings"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"golang.org/x/sync/errgroup"
)

var (
	sqlKeywordPattern   = regexp.MustCompile(`(?i)(--|;|/\*|\*/|@@|@|char|nchar|varchar|nvarchar|alter|begin|cast|create|cursor|declare|delete|drop|end|exec|execute|fetch|insert|kill|open|select|sys|sysobjects|syscolumns|table|update|union|or\s|and\s)`)
	sqlTautologyPattern = regexp.MustCompile(`(?i)(\b\d+\s*=\s*\d+\b|'[^']*'\s*=\s*'[^']*')`)
)

const defaultSQLFilterConcurrency = 8

// SQLInjection drops query parameters whose values look like SQL injection
// attempts. It never rejects the request.
//
// The patterns also match harmless values containing words such as "end"
// or "open"; such parameters are dropped too.
type SQLInjection struct {
	concurrency int
}

// NewSQLInjection returns the filter. concurrency bounds the per-key fan-out;
// values below 1 select a default.
func NewSQLInjection(concurrency int) *SQLInjection {
	if concurrency < 1 {
		concurrency = defaultSQLFilterConcurrency
	}
	return &SQLInjection{concurrency: concurrency}
}

func (m *SQLInjection) Handle(ctx *httpctx.Context, next func()) {
	keys := ctx.QueryKeys()
	if len(keys) == 0 {
		next()
		return
	}

	log := ctx.Logger()

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for _, key := range keys {
		g.Go(func() error {
			for _, value := range ctx.QueryValues(key) {
				if LooksLikeSQLInjection(value) {
					ctx.RemoveQuery(key)
					log.Warn().Str("query_key", key).Msg("query parameter dropped by sql injection filter")
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	ctx.Request.URL.RawQuery = ctx.EncodedQuery()
	next()
}

// LooksLikeSQLInjection reports whether value matches the SQL keyword and
// operator pattern or the tautology pattern. Blank values never match.
func LooksLikeSQLInjection(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	return sqlKeywordPattern.MatchString(value) || sqlTautologyPattern.MatchString(value)
}
