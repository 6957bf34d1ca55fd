package log

import (
	"errors"
	"io"
	"sync/atomic"
)

// closer 로그 파일과 라우터를 한 번에 정리합니다. 여러 번 호출해도 안전합니다.
type closer struct {
	files  []io.Closer
	router *levelRouter

	closed atomic.Bool
}

func (c *closer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c.router != nil {
		c.router.close()
	}

	var errs error
	for _, f := range c.files {
		if err := f.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
