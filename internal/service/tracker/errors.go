package tracker

import (
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

var (
	// ErrSearchTermRequired 검색어가 비어 있을 때 반환됩니다.
	ErrSearchTermRequired = apperrors.New(apperrors.InvalidInput, "검색어는 필수입니다")

	// ErrSeedUnavailable 시드 데이터셋이 구성되지 않았을 때 반환됩니다.
	ErrSeedUnavailable = apperrors.New(apperrors.Configuration, "시드 데이터셋이 설정되지 않았습니다")
)

func newErrSourceConfiguration(cause error) error {
	return apperrors.Wrap(cause, apperrors.Configuration, "유일한 수집 소스의 설정이 올바르지 않습니다")
}
