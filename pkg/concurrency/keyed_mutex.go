// Package concurrency 동시성 제어 유틸리티를 제공합니다.
package concurrency

import (
	"sync"
)

// KeyedMutex 키별로 독립적인 잠금을 제공합니다.
// 서로 다른 키에 대한 작업은 병렬로 진행되고, 같은 키에 대한 작업만 직렬화됩니다.
//
// 대기 중이거나 잠금을 보유한 고루틴이 없는 키는 참조 카운트가 0이 되는 즉시 정리되므로
// 키의 종류가 많아도 메모리가 계속 늘어나지 않습니다.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu       sync.Mutex
	refCount int
}

// NewKeyedMutex 새로운 KeyedMutex를 생성합니다.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedEntry),
	}
}

// Lock key에 대한 잠금을 획득하고, 해제 함수를 반환합니다.
// 해제 함수는 여러 번 호출해도 한 번만 해제합니다.
//
//	unlock := km.Lock(productURL)
//	defer unlock()
func (km *KeyedMutex) Lock(key string) (unlock func()) {
	km.mu.Lock()
	e, ok := km.locks[key]
	if !ok {
		e = &keyedEntry{}
		km.locks[key] = e
	}
	e.refCount++
	km.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() { km.release(key, e) })
	}
}

func (km *KeyedMutex) release(key string, e *keyedEntry) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e.mu.Unlock()

	e.refCount--
	if e.refCount == 0 {
		delete(km.locks, key)
	}
}

// Len 잠금을 보유하거나 대기 중인 키의 개수를 반환합니다.
func (km *KeyedMutex) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return len(km.locks)
}
