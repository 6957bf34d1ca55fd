package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxTitleLength 메시지에 포함하는 상품명의 최대 길이 (룬 기준)
const maxTitleLength = 120

var pricePrinter = message.NewPrinter(language.English)

// buildMessage 가격 변동 이벤트를 텔레그램 HTML 메시지로 변환합니다.
//
//	📉 가격 하락
//	<b>Apple MacBook Air</b>
//	USD 1,099.00 → USD 999.00 (-9.1%)
//	https://amazon.com/dp/...
func buildMessage(change contract.PriceChange) string {
	p := change.Product

	header := "📈 가격 상승"
	if change.Dropped() {
		header = "📉 가격 하락"
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n<b>")
	sb.WriteString(html.EscapeString(strutil.Truncate(strutil.NormalizeSpaces(p.Title), maxTitleLength)))
	sb.WriteString("</b>\n")
	fmt.Fprintf(&sb, "%s → %s", formatPrice(change.OldPrice, p.Currency), formatPrice(change.NewPrice, p.Currency))
	if change.OldPrice > 0 {
		fmt.Fprintf(&sb, " (%+.1f%%)", (change.NewPrice-change.OldPrice)/change.OldPrice*100)
	}
	if p.ProductURL != "" {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(p.ProductURL))
	}

	return sb.String()
}

// formatPrice 가격을 천 단위 구분 기호와 소수점 두 자리로 표기합니다.
//
//	formatPrice(1234.5, "USD") -> "USD 1,234.50"
func formatPrice(price float64, currency string) string {
	amount := pricePrinter.Sprintf("%.2f", price)
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}
