// Package product 상품 조회 및 수집 요청 API의 요청/응답 모델을 정의합니다.
package product

import "github.com/darkkaiser/price-tracker/internal/service/contract"

// ScrapeRequest 상품 수집 요청
type ScrapeRequest struct {
	SearchTerm  string `json:"searchTerm" korean:"검색어" validate:"required,max=200"`
	MaxProducts int    `json:"maxProducts" korean:"최대 상품 수" validate:"gte=0,lte=100"`
}

// ScrapeResponse 상품 수집 결과
type ScrapeResponse struct {
	Success    bool               `json:"success"`
	SearchTerm string             `json:"searchTerm"`
	Count      int                `json:"count"`
	Products   []contract.Product `json:"products"`
	Message    string             `json:"message"`
}

// ListRequest 상품 목록 조회 조건
type ListRequest struct {
	Query string `query:"q" korean:"검색어" validate:"max=200"`
	Limit int    `query:"limit" korean:"조회 개수" validate:"gte=0,lte=200"`
	Sort  string `query:"sort" korean:"정렬 기준"`
}

// ListResponse 상품 목록 조회 결과
type ListResponse struct {
	Count    int                `json:"count"`
	Products []contract.Product `json:"products"`
}

// StatsResponse 저장된 상품의 요약 통계
//
// 저장된 상품이 없으면 평균 값은 null 입니다.
type StatsResponse struct {
	TotalProducts int64    `json:"totalProducts"`
	AveragePrice  *float64 `json:"averagePrice"`
	AverageRating *float64 `json:"averageRating"`
}
