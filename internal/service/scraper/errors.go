package scraper

import (
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

var (
	// ErrResponseBodyTooLarge 응답 본문이 허용된 크기를 초과했을 때 반환됩니다.
	ErrResponseBodyTooLarge = apperrors.New(apperrors.ExecutionFailed, "응답 본문의 크기가 허용된 크기를 초과하였습니다")

	// ErrHTMLStructureChanged 페이지 구조가 변경되어 필요한 요소를 찾지 못했을 때 반환됩니다.
	ErrHTMLStructureChanged = apperrors.New(apperrors.ParsingFailed, "불러온 페이지의 문서구조가 변경되었습니다. CSS셀렉터를 확인하세요")
)

func newErrResponseBodyTooLarge(limit int64, url string) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "응답 본문 크기 제한(%d 바이트) 초과 (url=%s)", limit, url)
}

func newErrHTMLParseFailed(url string, err error) error {
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "HTML 문서 파싱에 실패하였습니다 (url=%s)", url)
}

func newErrJSONParsingFailed(url string, err error) error {
	return apperrors.Wrapf(err, apperrors.ParsingFailed, "JSON 응답 파싱에 실패하였습니다 (url=%s)", url)
}

func newErrUnexpectedHTMLResponse(url, contentType string) error {
	return apperrors.Newf(apperrors.ParsingFailed, "JSON 대신 HTML 응답을 받았습니다 (url=%s, content_type=%s)", url, contentType)
}

func newErrDecodeTargetInvalidType(v any) error {
	return apperrors.Newf(apperrors.Internal, "JSON 디코딩 대상은 nil이 아닌 포인터여야 합니다 (type=%T)", v)
}

// NewErrHTMLStructureChanged 찾지 못한 선택자 등 상세 정보를 포함한 구조 변경 에러를 생성합니다.
func NewErrHTMLStructureChanged(url, details string) error {
	if details == "" {
		return apperrors.Wrapf(ErrHTMLStructureChanged, apperrors.ParsingFailed, "url=%s", url)
	}
	return apperrors.Wrapf(ErrHTMLStructureChanged, apperrors.ParsingFailed, "url=%s: %s", url, details)
}
