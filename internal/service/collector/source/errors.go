package source

import (
	"errors"
	"fmt"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

// Kind 어댑터 실패의 분류입니다.
type Kind int

const (
	// KindConfiguration 자격증명 누락 등 설정 문제로 요청을 보내지 못한 경우
	KindConfiguration Kind = iota + 1

	// KindTransport 네트워크 오류, 타임아웃, 비정상 상태 코드
	KindTransport

	// KindParse 응답을 받았지만 해석하지 못한 경우
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AdapterError 어댑터가 반환하는 명시적인 실패 결과입니다.
type AdapterError struct {
	Source string
	Kind   Kind
	Err    error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s 어댑터 실패 (%s): %v", e.Source, e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError 원인 에러를 감싼 AdapterError를 생성합니다. err이 nil이면 nil을 반환합니다.
func NewAdapterError(source string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &AdapterError{Source: source, Kind: kind, Err: err}
}

// Classify apperrors 타입을 기준으로 에러를 AdapterError로 변환합니다.
// 이미 AdapterError이면 그대로 반환합니다.
func Classify(source string, err error) error {
	if err == nil {
		return nil
	}

	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return err
	}

	switch apperrors.UnderlyingType(err) {
	case apperrors.Configuration:
		return NewAdapterError(source, KindConfiguration, err)
	case apperrors.ParsingFailed:
		return NewAdapterError(source, KindParse, err)
	default:
		return NewAdapterError(source, KindTransport, err)
	}
}

// KindOf 에러 체인에서 AdapterError의 Kind를 찾습니다. 없으면 0을 반환합니다.
func KindOf(err error) Kind {
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Kind
	}
	return 0
}
