package constants

// 클라이언트에게 반환되는 에러 메시지입니다.
const (
	ErrMsgBadRequest          = "잘못된 요청입니다"
	ErrMsgInvalidJSON         = "잘못된 JSON 형식입니다"
	ErrMsgInvalidProductID    = "상품 ID는 양의 정수여야 합니다"
	ErrMsgProductNotFound     = "상품을 찾을 수 없습니다"
	ErrMsgNotFound            = "페이지를 찾을 수 없습니다"
	ErrMsgBodyTooLarge        = "요청 본문이 너무 큽니다"
	ErrMsgUnsupportedMedia    = "지원하지 않는 Content-Type 형식입니다"
	ErrMsgTooManyRequests     = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgTooManyScrapes      = "수집 요청이 너무 많습니다. 잠시 후 다시 시도해주세요"
	ErrMsgInternalServer      = "내부 서버 오류가 발생했습니다"
	ErrMsgServiceUnavailable  = "일시적으로 서비스를 사용할 수 없습니다"
	ErrMsgGatewayTimeout      = "요청 처리 시간이 초과되었습니다"
	MsgScrapeCompletedFmt     = "%d개의 상품을 수집하여 저장했습니다"
	MsgStorageHealthy         = "정상 작동 중"
	PanicMsgTrackerRequired   = "Tracker는 필수입니다"
	PanicMsgStoreRequired     = "ProductStore는 필수입니다"
	PanicMsgAppConfigRequired = "AppConfig는 필수입니다"
)

// 내부 로깅 메시지입니다.
const (
	LogMsgServiceStarting       = "API 서비스 시작중..."
	LogMsgServiceStarted        = "API 서비스 시작됨"
	LogMsgServiceAlreadyStarted = "API 서비스가 이미 시작됨!!!"
	LogMsgServiceStopping       = "API 서비스 중지중..."
	LogMsgServiceStopped        = "API 서비스 중지됨"
	LogMsgServiceUnexpectedExit = "API 서비스가 예기치 않게 종료되었습니다"

	LogMsgHTTPServerStarting      = "API 서비스 > http 서버 시작"
	LogMsgHTTPServerStopped       = "API 서비스 > http 서버 중지됨"
	LogMsgHTTPServerShutdownError = "API 서비스 > http 서버 종료 중 오류 발생"
	LogMsgHTTPServerFatalError    = "API 서비스 > http 서버를 구성하는 중에 치명적인 오류가 발생하였습니다"

	LogMsgHealthCheck   = "헬스체크 요청"
	LogMsgVersionInfo   = "버전 정보 요청"
	LogMsgScrapeRequest = "상품 수집 요청"
	LogMsgScrapeFailed  = "상품 수집 요청 처리 실패"

	LogMsgHTTP4xxClientError = "HTTP 4xx: 클라이언트 요청 오류"
	LogMsgHTTP5xxServerError = "HTTP 5xx: 서버 내부 오류"
)
