package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce   sync.Once
	setupCloser io.Closer
	setupErr    error
)

// Setup 전역 로거를 초기화합니다. 최초 호출만 적용되며 이후 호출은 첫 결과를 그대로 반환합니다.
//
// 반환된 io.Closer는 애플리케이션 종료 시 반드시 닫아야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		setupCloser, setupErr = setup(opts)
	})
	return setupCloser, setupErr
}

func setup(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}

	newFile := func(suffix string) *lumberjack.Logger {
		return &lumberjack.Logger{
			Filename:   filepath.Join(dir, opts.Name+suffix+".log"),
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     opts.MaxAge,
			LocalTime:  true,
		}
	}

	router := &levelRouter{
		formatter: &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			CallerPrettyfier: func(frame *runtime.Frame) (string, string) {
				return frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")", ""
			},
		},
	}
	c := &closer{router: router}

	mainFile := newFile("")
	router.main = mainFile
	c.files = append(c.files, mainFile)

	if opts.EnableCriticalLog {
		f := newFile(".critical")
		router.critical = f
		c.files = append(c.files, f)
	}
	if opts.EnableVerboseLog {
		f := newFile(".verbose")
		router.verbose = f
		c.files = append(c.files, f)
	}
	if opts.EnableConsoleLog {
		router.console = os.Stdout
	}

	// 실제 출력은 모두 router가 담당하므로 logrus 기본 출력은 버린다.
	logrus.SetOutput(io.Discard)
	logrus.SetFormatter(&silentFormatter{})
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)
	logrus.AddHook(router)
	logrus.RegisterExitHandler(func() { _ = c.Close() })

	return c, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// silentFormatter logrus 기본 출력 경로에서 포맷팅 비용이 들지 않도록 빈 결과를 반환합니다.
type silentFormatter struct{}

func (silentFormatter) Format(*logrus.Entry) ([]byte, error) {
	return nil, nil
}
