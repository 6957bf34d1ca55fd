package testutil

import (
	"net"
	"strconv"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

// GetFreePort 커널이 할당한 빈 TCP 포트를 반환합니다. 리스너는 즉시 닫습니다.
func GetFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}

// WaitForServer port에 TCP 연결이 성공할 때까지 timeout 동안 재시도합니다.
func WaitForServer(port int, timeout time.Duration) error {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	for deadline := time.Now().Add(timeout); time.Now().Before(deadline); time.Sleep(10 * time.Millisecond) {
		if conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond); err == nil {
			conn.Close()
			return nil
		}
	}

	return apperrors.Newf(apperrors.Timeout, "%s 서버가 %s 안에 연결을 받지 않았습니다", addr, timeout)
}
