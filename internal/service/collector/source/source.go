// Package source 상품 목록을 수집하는 외부 소스 어댑터의 공통 규약을 정의합니다.
package source

import (
	"context"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
)

// Source 검색어로 상품 목록을 수집하는 어댑터입니다.
//
// 반환하는 에러는 항상 *AdapterError이며, 에러가 있어도 일부 수집된 결과를 함께 반환할 수 있습니다.
// 어댑터는 상태를 갖지 않으므로 여러 고루틴에서 동시에 호출해도 안전해야 합니다.
type Source interface {
	Name() string
	Fetch(ctx context.Context, searchTerm string, maxResults int) ([]contract.Listing, error)
}
