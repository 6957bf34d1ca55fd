// Package sqlite SQLite 파일에 상품을 영속화하는 저장소를 제공합니다.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/store"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const component = "store.sqlite"

// DefaultBusyTimeout 다른 연결이 쓰기 잠금을 잡고 있을 때 대기하는 최대 시간
const DefaultBusyTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT    NOT NULL,
	price         REAL    NOT NULL DEFAULT 0,
	currency      TEXT    NOT NULL DEFAULT 'USD',
	rating        REAL    NOT NULL DEFAULT 0,
	reviews_count INTEGER NOT NULL DEFAULT 0,
	image_url     TEXT    NOT NULL DEFAULT '',
	product_url   TEXT    NOT NULL UNIQUE,
	category      TEXT    NOT NULL DEFAULT '',
	scraped_at    INTEGER NOT NULL,
	price_history TEXT    NOT NULL DEFAULT '[]',
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_scraped_at ON products (scraped_at DESC);
`

const selectColumns = `id, title, price, currency, rating, reviews_count, image_url, product_url,
	category, scraped_at, price_history, created_at, updated_at`

// Store contract.ProductStore의 SQLite 구현체입니다.
type Store struct {
	db    *sql.DB
	clock contract.Clock
}

var _ contract.ProductStore = (*Store)(nil)

// Option Store 구성을 위한 옵션 함수 타입입니다.
type Option func(*Store)

// WithClock 생성/수정 시각 기록에 사용할 시계를 지정합니다.
func WithClock(clock contract.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open dsn이 가리키는 데이터베이스를 열고 스키마를 준비합니다.
//
//	s, err := sqlite.Open(ctx, "price-tracker.db")
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "SQLite DSN이 비어 있습니다")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "SQLite 데이터베이스를 열 수 없습니다")
	}

	// 단일 쓰기 연결로 SQLITE_BUSY 경합을 피한다
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", DefaultBusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, apperrors.Wrapf(err, apperrors.System, "SQLite 설정 적용에 실패했습니다 (%s)", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, apperrors.System, "상품 테이블 생성에 실패했습니다")
	}

	s := &Store{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"dsn": dsn,
	}).Debug("SQLite 저장소 준비 완료")

	return s, nil
}

func (s *Store) FindByProductURL(ctx context.Context, productURL string) (*contract.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM products WHERE product_url = ?`, productURL)
	return s.scanOptional(row)
}

func (s *Store) FindByID(ctx context.Context, id int64) (*contract.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM products WHERE id = ?`, id)
	return s.scanOptional(row)
}

func (s *Store) Create(ctx context.Context, p contract.Product) (contract.Product, error) {
	if p.ProductURL == "" {
		return contract.Product{}, store.ErrProductURLRequired
	}

	history, err := encodeHistory(p.PriceHistory)
	if err != nil {
		return contract.Product{}, err
	}

	now := s.clock()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (title, price, currency, rating, reviews_count, image_url, product_url,
			category, scraped_at, price_history, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Price, p.Currency, p.Rating, p.ReviewsCount, p.ImageURL, p.ProductURL,
		p.Category, toUnix(p.ScrapedAt), history, toUnix(now), toUnix(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return contract.Product{}, store.NewErrDuplicateProductURL(p.ProductURL)
		}
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 저장에 실패했습니다")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "생성된 상품 ID를 확인할 수 없습니다")
	}

	p.ID = id
	p.CreatedAt = fromUnix(toUnix(now))
	p.UpdatedAt = p.CreatedAt
	p.ScrapedAt = fromUnix(toUnix(p.ScrapedAt))
	p.PriceHistory = normalizeHistory(p.PriceHistory)

	return p, nil
}

func (s *Store) Update(ctx context.Context, id int64, p contract.Product) (contract.Product, error) {
	history, err := encodeHistory(p.PriceHistory)
	if err != nil {
		return contract.Product{}, err
	}

	now := s.clock()
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET title = ?, price = ?, currency = ?, rating = ?, reviews_count = ?, image_url = ?,
			product_url = COALESCE(NULLIF(?, ''), product_url), category = ?, scraped_at = ?, price_history = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.Title, p.Price, p.Currency, p.Rating, p.ReviewsCount, p.ImageURL,
		p.ProductURL, p.Category, toUnix(p.ScrapedAt), history,
		toUnix(now), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return contract.Product{}, store.NewErrDuplicateProductURL(p.ProductURL)
		}
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 갱신에 실패했습니다")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 갱신 결과를 확인할 수 없습니다")
	}
	if affected == 0 {
		return contract.Product{}, store.NewErrProductNotFound(id)
	}

	updated, err := s.FindByID(ctx, id)
	if err != nil {
		return contract.Product{}, err
	}
	if updated == nil {
		return contract.Product{}, store.NewErrProductNotFound(id)
	}
	return *updated, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "상품 수 조회에 실패했습니다")
	}
	return n, nil
}

func (s *Store) Average(ctx context.Context, field contract.Field) (float64, bool, error) {
	var column string
	switch field {
	case contract.FieldPrice:
		column = "price"
	case contract.FieldRating:
		column = "rating"
	default:
		return 0, false, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 집계 필드입니다: %s", field)
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(`+column+`) FROM products`).Scan(&avg); err != nil {
		return 0, false, apperrors.Wrapf(err, apperrors.System, "%s 평균 조회에 실패했습니다", field)
	}
	return avg.Float64, avg.Valid, nil
}

func (s *Store) List(ctx context.Context, q contract.ListQuery) ([]contract.Product, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + selectColumns + ` FROM products`)

	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
		sb.WriteString(` WHERE LOWER(title) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`)
		args = append(args, pattern, pattern)
	}

	sb.WriteString(` ORDER BY ` + orderClause(q.Sort))

	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "상품 목록 조회에 실패했습니다")
	}
	defer rows.Close()

	products := make([]contract.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "상품 목록 조회에 실패했습니다")
	}

	return products, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "SQLite 저장소에 연결할 수 없습니다")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) scanOptional(row *sql.Row) (*contract.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (contract.Product, error) {
	var (
		p                              contract.Product
		scrapedAt, createdAt, updateAt int64
		history                        string
	)

	err := sc.Scan(&p.ID, &p.Title, &p.Price, &p.Currency, &p.Rating, &p.ReviewsCount, &p.ImageURL, &p.ProductURL,
		&p.Category, &scrapedAt, &history, &createdAt, &updateAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return contract.Product{}, err
		}
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 레코드를 읽을 수 없습니다")
	}

	if err := json.Unmarshal([]byte(history), &p.PriceHistory); err != nil {
		return contract.Product{}, apperrors.Wrapf(err, apperrors.ParsingFailed, "상품(id=%d)의 가격 이력이 손상되었습니다", p.ID)
	}
	p.PriceHistory = normalizeHistory(p.PriceHistory)
	p.ScrapedAt = fromUnix(scrapedAt)
	p.CreatedAt = fromUnix(createdAt)
	p.UpdatedAt = fromUnix(updateAt)

	return p, nil
}

func orderClause(order contract.SortOrder) string {
	switch order {
	case contract.SortPriceAsc:
		return "price ASC, id DESC"
	case contract.SortPriceDesc:
		return "price DESC, id DESC"
	case contract.SortRating:
		return "rating DESC, reviews_count DESC, id DESC"
	default:
		return "scraped_at DESC, id DESC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func encodeHistory(history []contract.PricePoint) (string, error) {
	if history == nil {
		history = []contract.PricePoint{}
	}
	data, err := json.Marshal(normalizeHistory(history))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Internal, "가격 이력을 직렬화할 수 없습니다")
	}
	return string(data), nil
}

// normalizeHistory 시각을 UTC로 맞춰 저장 전후의 값이 같도록 합니다.
func normalizeHistory(history []contract.PricePoint) []contract.PricePoint {
	out := make([]contract.PricePoint, len(history))
	for i, h := range history {
		out[i] = contract.PricePoint{Price: h.Price, Date: h.Date.UTC()}
	}
	return out
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code&0xff == sqlite3.SQLITE_CONSTRAINT
}
