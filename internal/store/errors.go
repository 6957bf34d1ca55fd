// Package store 상품 저장소 구현체들이 공유하는 에러를 정의합니다.
package store

import (
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

// ErrProductURLRequired 상품 URL 없이 상품을 생성하려고 할 때 반환됩니다.
var ErrProductURLRequired = apperrors.New(apperrors.InvalidInput, "상품 URL은 필수입니다")

// NewErrDuplicateProductURL 이미 저장된 상품 URL로 생성하거나 변경하려고 할 때 반환됩니다.
func NewErrDuplicateProductURL(productURL string) error {
	return apperrors.Newf(apperrors.Conflict, "이미 등록된 상품 URL입니다: %s", productURL)
}

// NewErrProductNotFound id에 해당하는 상품이 없을 때 반환됩니다.
func NewErrProductNotFound(id int64) error {
	return apperrors.Newf(apperrors.NotFound, "상품(id=%d)을 찾을 수 없습니다", id)
}
