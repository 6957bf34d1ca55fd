package contract

import "time"

// PriceChange 기존 상품의 가격이 바뀌었음을 나타내는 이벤트입니다.
type PriceChange struct {
	Product   Product
	OldPrice  float64
	NewPrice  float64
	ChangedAt time.Time
}

// Dropped 가격이 하락했는지 여부를 반환합니다.
func (c PriceChange) Dropped() bool {
	return c.NewPrice < c.OldPrice
}

// PriceChangeNotifier 가격 변동 알림을 전달받는 수신자입니다.
// 구현체는 호출자를 블로킹하지 않아야 합니다.
type PriceChangeNotifier interface {
	NotifyPriceChange(change PriceChange)
}
