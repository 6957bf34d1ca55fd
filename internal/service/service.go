// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 계약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 시작 후 serviceStopCtx가 취소될 때까지 동작하는 서비스입니다.
//
// Start를 호출하기 전에 serviceStopWG.Add(1)을 호출해야 하며,
// 서비스는 종료 처리를 마친 뒤 serviceStopWG.Done()을 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
