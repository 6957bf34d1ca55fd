package reconcile

import (
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
)

// prependHistory 새 가격을 이력의 맨 앞에 추가하고 최대 개수를 넘는 오래된 항목을 버립니다.
// 입력 슬라이스는 수정하지 않습니다.
func prependHistory(history []contract.PricePoint, price float64, at time.Time) []contract.PricePoint {
	keep := min(len(history), contract.MaxPriceHistory-1)

	out := make([]contract.PricePoint, 0, keep+1)
	out = append(out, contract.PricePoint{Price: price, Date: at})
	out = append(out, history[:keep]...)

	return out
}

func capHistory(history []contract.PricePoint) []contract.PricePoint {
	if len(history) > contract.MaxPriceHistory {
		return history[:contract.MaxPriceHistory]
	}
	return history
}
