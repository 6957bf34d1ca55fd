package contract

import (
	"context"
	"time"
)

// Field 집계 연산의 대상이 되는 수치 필드입니다.
type Field string

const (
	FieldPrice  Field = "price"
	FieldRating Field = "rating"
)

// ProductRepository 상품 레코드를 영속화하는 저장소 게이트웨이입니다.
//
// 상품 URL 기준의 조회 후 생성/수정은 원자적으로 수행되지 않습니다. 같은 URL에 대한 동시 요청은
// 호출 측에서 직렬화해야 합니다.
type ProductRepository interface {
	// FindByProductURL URL이 정확히 일치하는 상품을 반환합니다. 없으면 (nil, nil)을 반환합니다.
	FindByProductURL(ctx context.Context, productURL string) (*Product, error)

	// Create 새 상품을 저장하고 ID와 생성 시각이 채워진 레코드를 반환합니다.
	Create(ctx context.Context, p Product) (Product, error)

	// Update id에 해당하는 상품의 필드를 p의 값으로 갱신합니다.
	Update(ctx context.Context, id int64, p Product) (Product, error)

	Count(ctx context.Context) (int64, error)

	// Average 필드의 평균을 반환합니다. 레코드가 없으면 ok는 false 입니다.
	Average(ctx context.Context, field Field) (avg float64, ok bool, err error)
}

// SortOrder 상품 목록의 정렬 기준입니다.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
)

// ListQuery 상품 목록 조회 조건입니다.
type ListQuery struct {
	// Keyword 제목 또는 카테고리에 대소문자 구분 없이 포함되어야 하는 문자열 (빈 값이면 전체)
	Keyword string
	Sort    SortOrder
	Limit   int
}

// ProductQuerier API 조회용 읽기 연산을 제공합니다.
type ProductQuerier interface {
	// FindByID id에 해당하는 상품을 반환합니다. 없으면 (nil, nil)을 반환합니다.
	FindByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, q ListQuery) ([]Product, error)
}

// ProductStore 쓰기 게이트웨이와 읽기 연산을 모두 제공하는 저장소입니다.
type ProductStore interface {
	ProductRepository
	ProductQuerier

	// Ping 저장소 연결 상태를 확인합니다.
	Ping(ctx context.Context) error
	Close() error
}

// Clock 현재 시각을 반환하는 함수입니다. 테스트에서 고정된 시각을 주입할 때 사용합니다.
type Clock func() time.Time
