package fetcher

import (
	"io"
	"sync"
)

// maxDrainBytes 연결 재사용을 위해 읽고 버릴 응답 본문의 최대 크기입니다.
// 이보다 큰 본문은 끝까지 읽지 않고 닫습니다.
const maxDrainBytes = 64 * 1024

var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024)
		return &b
	},
}

// DrainAndClose 남은 응답 본문을 일부 읽어 버린 뒤 닫습니다.
// Keep-Alive 연결이 커넥션 풀로 반환될 수 있도록 합니다.
func DrainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}
