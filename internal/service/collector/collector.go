// Package collector 여러 수집 소스의 결과를 하나의 상품 목록으로 모읍니다.
package collector

import (
	"context"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
)

const component = "collector.aggregator"

// FallbackProvider 실시간 수집 결과가 없을 때 사용할 대체 상품 목록을 제공합니다.
type FallbackProvider interface {
	Fallback(maxResults int) ([]contract.Listing, error)
}

// SourceReport 소스 하나의 수집 결과 요약입니다.
type SourceReport struct {
	Name     string
	Count    int
	Err      error
	Duration time.Duration
}

// Report 한 번의 수집 결과 요약입니다.
type Report struct {
	Sources      []SourceReport
	FallbackUsed bool
	FallbackErr  error
}

// Total 최종적으로 반환된 상품 수와 무관하게 실시간 소스가 반환한 상품 수의 합을 반환합니다.
func (r Report) Total() int {
	n := 0
	for _, s := range r.Sources {
		n += s.Count
	}
	return n
}

// Source 이름에 해당하는 소스의 요약을 반환합니다.
func (r Report) Source(name string) (SourceReport, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceReport{}, false
}

// Collector 등록된 순서대로 소스를 한 번씩 호출하여 결과를 이어 붙이는 수집기입니다.
//
// 소스의 실패는 모두 0건으로 간주하며 호출자에게 전파하지 않습니다.
// 모든 소스의 결과가 비어 있을 때만 대체 데이터셋을 사용합니다.
type Collector struct {
	sources  []source.Source
	fallback FallbackProvider
}

// New 새로운 Collector를 생성합니다. fallback이 nil이면 대체 데이터셋을 사용하지 않습니다.
func New(sources []source.Source, fallback FallbackProvider) *Collector {
	return &Collector{
		sources:  sources,
		fallback: fallback,
	}
}

// Collect 검색어로 모든 소스를 순차 호출하여 결과를 모읍니다.
//
// 각 소스는 maxResults를 상한으로 수집하지만, 합쳐진 목록은 다시 자르지 않습니다.
func (c *Collector) Collect(ctx context.Context, searchTerm string, maxResults int) ([]contract.Listing, Report) {
	var (
		combined []contract.Listing
		report   Report
	)

	for _, src := range c.sources {
		start := time.Now()
		listings, err := src.Fetch(ctx, searchTerm, maxResults)
		listings = downgrade(src.Name(), listings, err)

		report.Sources = append(report.Sources, SourceReport{
			Name:     src.Name(),
			Count:    len(listings),
			Err:      err,
			Duration: time.Since(start),
		})
		combined = append(combined, listings...)
	}

	if len(combined) == 0 && c.fallback != nil {
		listings, err := c.fallback.Fallback(maxResults)
		if err != nil {
			listings = nil
		}

		report.FallbackUsed = true
		report.FallbackErr = err
		combined = append(combined, listings...)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"search_term":   searchTerm,
		"max_results":   maxResults,
		"collected":     report.Total(),
		"returned":      len(combined),
		"fallback_used": report.FallbackUsed,
	}).Info("상품 수집 완료")

	if combined == nil {
		combined = []contract.Listing{}
	}

	return combined, report
}

// downgrade 소스가 실패하면 결과를 0건으로 낮추고 실패 내용을 기록합니다.
// 실패하지 않았으면 결과를 그대로 반환합니다.
func downgrade(name string, listings []contract.Listing, err error) []contract.Listing {
	if err == nil {
		return listings
	}

	fields := applog.Fields{
		"source":  name,
		"kind":    source.KindOf(err).String(),
		"dropped": len(listings),
	}

	logger := applog.WithComponentAndFields(component, fields).WithError(err)
	if source.KindOf(err) == source.KindConfiguration {
		logger.Warn("수집 소스 설정 누락, 0건으로 처리합니다")
	} else {
		logger.Warn("수집 소스 실패, 0건으로 처리합니다")
	}

	return nil
}
