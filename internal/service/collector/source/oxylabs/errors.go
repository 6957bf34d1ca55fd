package oxylabs

import (
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

var (
	// ErrUsernameMissing Oxylabs 사용자명이 설정되지 않았을 때 반환됩니다.
	ErrUsernameMissing = apperrors.New(apperrors.Configuration, "Oxylabs 사용자명(OXYLABS_USERNAME)이 설정되지 않았습니다")

	// ErrPasswordMissing Oxylabs 비밀번호가 설정되지 않았을 때 반환됩니다.
	ErrPasswordMissing = apperrors.New(apperrors.Configuration, "Oxylabs 비밀번호(OXYLABS_PASSWORD)가 설정되지 않았습니다")
)
