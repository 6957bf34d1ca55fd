package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// levelRouter 로그 레벨에 따라 엔트리를 알맞은 출력 대상으로 분배하는 logrus Hook 입니다.
//
//   - main:     INFO ~ PANIC
//   - critical: ERROR ~ PANIC (main에도 함께 기록)
//   - verbose:  DEBUG, TRACE (verbose가 없으면 main에 기록)
//   - console:  모든 레벨
type levelRouter struct {
	main     io.Writer
	critical io.Writer
	verbose  io.Writer
	console  io.Writer

	formatter Formatter

	mu     sync.RWMutex
	closed bool
}

func (r *levelRouter) Levels() []Level {
	return []Level{PanicLevel, FatalLevel, ErrorLevel, WarnLevel, InfoLevel, DebugLevel, TraceLevel}
}

func (r *levelRouter) Fire(entry *Entry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil
	}

	msg, err := r.formatter.Format(entry)
	if err != nil {
		return err
	}

	var firstErr error
	write := func(w io.Writer, target string) {
		if w == nil {
			return
		}
		if _, err := w.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "[LOG-SYSTEM] %s 로그 쓰기 실패: %v\n", target, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	write(r.console, "console")

	if entry.Level <= ErrorLevel {
		write(r.critical, "critical")
	}

	if entry.Level >= DebugLevel && r.verbose != nil {
		write(r.verbose, "verbose")
		return firstErr
	}

	write(r.main, "main")

	return firstErr
}

// close 이후의 모든 로그 기록을 무시하도록 전환합니다.
func (r *levelRouter) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
}
