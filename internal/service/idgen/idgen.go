// Package idgen 합성 상품 키에 사용하는 고유 접미사를 생성합니다.
package idgen

import (
	"math/rand/v2"
	"sync/atomic"
)

const (
	// base62Chars ASCII 순서(0-9, A-Z, a-z)를 따르므로 같은 길이의 문자열은 사전순 정렬이 수치 정렬과 일치합니다.
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	base62Len   = uint64(len(base62Chars))

	// seqLength 시퀀스 부분의 고정 길이 (62^5 ≈ 9억 개까지 자릿수 유지)
	seqLength = 5

	// randLength 프로세스 간 충돌을 피하기 위한 난수 부분의 길이
	randLength = 4
)

// Generator 프로세스 내에서 중복되지 않는 접미사를 생성합니다.
//
// 접미사는 [시퀀스(Base62, 5자리)][난수(Base62, 4자리)] 형태입니다. 시퀀스가 같은 프로세스 안에서의
// 유일성을 보장하고, 난수가 서로 다른 프로세스가 같은 밀리초에 만든 키가 겹치지 않도록 합니다.
// 여러 고루틴에서 동시에 호출해도 안전합니다.
type Generator struct {
	counter atomic.Uint64
}

// New 새로운 Generator를 반환합니다.
func New() *Generator {
	return &Generator{}
}

// NewSuffix 새로운 접미사를 반환합니다. 예: "0001a7Xq2"
func (g *Generator) NewSuffix() string {
	seq := g.counter.Add(1)

	b := make([]byte, 0, seqLength+randLength+2)
	b = appendBase62Fixed(b, seq, seqLength)
	b = appendBase62Fixed(b, rand.Uint64N(pow62(randLength)), randLength)

	return string(b)
}

// appendBase62Fixed num을 Base62로 인코딩하여 dst에 추가합니다.
// 결과가 length보다 짧으면 앞을 '0'으로 채우고, 길면 자르지 않고 모두 기록합니다.
func appendBase62Fixed(dst []byte, num uint64, length int) []byte {
	var tmp [16]byte
	i := len(tmp)

	for num > 0 {
		i--
		tmp[i] = base62Chars[num%base62Len]
		num /= base62Len
	}
	for len(tmp)-i < length {
		i--
		tmp[i] = base62Chars[0]
	}

	return append(dst, tmp[i:]...)
}

func pow62(n int) uint64 {
	p := uint64(1)
	for range n {
		p *= base62Len
	}
	return p
}
