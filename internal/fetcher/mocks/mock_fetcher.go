// Package mocks fetcher 패키지를 사용하는 코드의 테스트를 위한 Mock 구현체를 제공합니다.
package mocks

import (
	"net/http"

	"github.com/darkkaiser/pushover/internal/fetcher"
	"github.com/stretchr/testify/mock"
)

var _ fetcher.Fetcher = (*MockFetcher)(nil)

// MockFetcher testify/mock 기반의 Fetcher 구현체입니다.
type MockFetcher struct {
	mock.Mock
}

// NewMockFetcher 새로운 MockFetcher를 생성합니다.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

// Do 설정된 응답을 반환합니다.
func (m *MockFetcher) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)

	var resp *http.Response
	if r := args.Get(0); r != nil {
		resp = r.(*http.Response)
	}

	return resp, args.Error(1)
}
