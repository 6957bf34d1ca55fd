// Package product 상품 수집 요청과 저장된 상품 조회 API 핸들러를 제공합니다.
package product

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/pkg/validator"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/httputil"
	"github.com/darkkaiser/price-tracker/internal/service/api/model/product"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/service/reconcile"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
)

// Tracker 검색어 하나에 대한 수집 파이프라인을 실행합니다.
type Tracker interface {
	CollectAndPersist(ctx context.Context, searchTerm string, maxResults int) ([]contract.Product, error)
}

// Store 조회 API가 사용하는 저장소 연산입니다.
type Store interface {
	contract.ProductQuerier

	Count(ctx context.Context) (int64, error)
	Average(ctx context.Context, field contract.Field) (float64, bool, error)
}

// Handler 상품 API 핸들러
type Handler struct {
	tracker Tracker
	store   Store
}

// New Handler 인스턴스를 생성합니다.
func New(tracker Tracker, store Store) *Handler {
	if tracker == nil {
		panic(constants.PanicMsgTrackerRequired)
	}
	if store == nil {
		panic(constants.PanicMsgStoreRequired)
	}

	return &Handler{
		tracker: tracker,
		store:   store,
	}
}

// ScrapeHandler 검색어로 상품을 수집하여 저장하고, 저장된 상품 목록을 반환합니다.
//
// 수집 소스가 모두 실패해도 에러가 아니며, 이 경우 빈 목록과 함께 200을 반환합니다.
func (h *Handler) ScrapeHandler(c echo.Context) error {
	var req product.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgInvalidJSON)
	}
	if err := validator.Struct(&req); err != nil {
		return httputil.NewBadRequestError(validator.FormatValidationError(err))
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"search_term":  req.SearchTerm,
		"max_products": req.MaxProducts,
		"remote_ip":    c.RealIP(),
	}).Info(constants.LogMsgScrapeRequest)

	products, err := h.tracker.CollectAndPersist(context.WithoutCancel(c.Request().Context()), req.SearchTerm, req.MaxProducts)
	if err != nil {
		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"search_term": req.SearchTerm,
			"error":       err,
		}).Warn(constants.LogMsgScrapeFailed)

		return err
	}

	return c.JSON(http.StatusOK, product.ScrapeResponse{
		Success:    true,
		SearchTerm: strings.TrimSpace(req.SearchTerm),
		Count:      len(products),
		Products:   products,
		Message:    fmt.Sprintf(constants.MsgScrapeCompletedFmt, len(products)),
	})
}

// ListHandler 저장된 상품 목록을 반환합니다.
//
// 같은 상품이 여러 URL로 저장된 경우를 걸러내기 위해 요청 개수의 두 배를 조회한 뒤
// 이미지 URL(없으면 제목)이 같은 항목을 제거합니다.
func (h *Handler) ListHandler(c echo.Context) error {
	var req product.ListRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}
	if err := validator.Struct(&req); err != nil {
		return httputil.NewBadRequestError(validator.FormatValidationError(err))
	}

	limit := req.Limit
	if limit == 0 {
		limit = constants.DefaultListLimit
	}

	rows, err := h.store.List(c.Request().Context(), contract.ListQuery{
		Keyword: strings.TrimSpace(req.Query),
		Sort:    ParseSortOrder(req.Sort),
		Limit:   limit * 2,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 목록 조회에 실패했습니다")
	}

	products := dedupe(rows, limit)

	return c.JSON(http.StatusOK, product.ListResponse{
		Count:    len(products),
		Products: products,
	})
}

// GetHandler ID로 상품 하나를 조회합니다.
func (h *Handler) GetHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return httputil.NewBadRequestError(constants.ErrMsgInvalidProductID)
	}

	p, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.System, "상품(id=%d) 조회에 실패했습니다", id)
	}
	if p == nil {
		return httputil.NewNotFoundError(constants.ErrMsgProductNotFound)
	}

	return c.JSON(http.StatusOK, p)
}

// StatsHandler 저장된 상품 수와 평균 가격, 평균 평점을 반환합니다.
func (h *Handler) StatsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := h.store.Count(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 수 집계에 실패했습니다")
	}

	resp := product.StatsResponse{TotalProducts: total}

	if avg, ok, err := h.store.Average(ctx, contract.FieldPrice); err != nil {
		return apperrors.Wrap(err, apperrors.System, "평균 가격 집계에 실패했습니다")
	} else if ok {
		resp.AveragePrice = &avg
	}

	if avg, ok, err := h.store.Average(ctx, contract.FieldRating); err != nil {
		return apperrors.Wrap(err, apperrors.System, "평균 평점 집계에 실패했습니다")
	} else if ok {
		resp.AverageRating = &avg
	}

	return c.JSON(http.StatusOK, resp)
}

// ParseSortOrder 쿼리 문자열의 정렬 기준을 SortOrder로 변환합니다.
//
// "priceAsc"와 같은 camelCase 표기도 허용하며, 알 수 없는 값은 최신순으로 처리합니다.
func ParseSortOrder(s string) contract.SortOrder {
	switch order := contract.SortOrder(strcase.ToSnake(strings.TrimSpace(s))); order {
	case contract.SortPriceAsc, contract.SortPriceDesc, contract.SortRating, contract.SortNewest:
		return order
	default:
		return contract.SortNewest
	}
}

// dedupe 이미지 URL(없으면 제목)이 처음 등장한 상품만 남기고 최대 limit 개를 반환합니다.
// 대체 이미지는 상품마다 같으므로 이미지가 없는 것으로 취급합니다.
func dedupe(rows []contract.Product, limit int) []contract.Product {
	seen := make(map[string]struct{}, len(rows))
	result := make([]contract.Product, 0, min(len(rows), limit))

	for _, p := range rows {
		if len(result) >= limit {
			break
		}

		key := p.ImageURL
		if key == "" || key == reconcile.PlaceholderImageURL {
			key = p.Title
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result = append(result, p)
	}

	return result
}
