package pushover

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/http/httpguts"
)

// MaxAttachmentSize API가 허용하는 첨부 파일의 최대 크기입니다.
// 클라이언트는 이 값을 검사하지 않으며, 초과 시 API가 요청을 거부합니다.
const MaxAttachmentSize = 5 * 1024 * 1024

// Attachment 메시지에 첨부되는 이미지 등의 바이너리 데이터입니다.
type Attachment struct {
	Name     string
	Data     []byte
	MIMEType string
}

// extensionMIMETypes 자주 쓰이는 확장자의 MIME 타입입니다. 여기에 없으면 내용으로 판별합니다.
var extensionMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".heic": "image/heic",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
}

// NewAttachment 모든 첨부 방식이 거치는 단일 생성 함수입니다.
//
// name이 공백이거나 data가 비어 있으면 인자 에러를 반환합니다.
// mimeType이 비어 있으면 확장자, 그다음 내용을 기준으로 MIME 타입을 결정합니다.
func NewAttachment(name string, data []byte, mimeType string) (*Attachment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newArgumentError("첨부 파일 이름이 비어 있습니다")
	}
	if len(data) == 0 {
		return nil, newArgumentError("첨부 파일 %q의 내용이 비어 있습니다", name)
	}

	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = DetectMIMEType(name, data)
	}
	if !httpguts.ValidHeaderFieldValue(mimeType) {
		return nil, newValidationErrorf("attachment", ReasonInvalidFormat, "MIME 타입을 헤더 값으로 사용할 수 없습니다: %q", mimeType)
	}

	return &Attachment{
		Name:     name,
		Data:     data,
		MIMEType: mimeType,
	}, nil
}

// DetectMIMEType 파일 확장자로 MIME 타입을 찾고, 알 수 없는 확장자면 내용을 검사하여 판별합니다.
// 판별할 수 없으면 application/octet-stream을 반환합니다.
func DetectMIMEType(name string, data []byte) string {
	if mimeType, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mimeType
	}
	return mimetype.Detect(data).String()
}

func newAttachmentFromFile(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "첨부 파일을 읽을 수 없습니다: %s", path)
	}
	return NewAttachment(filepath.Base(path), data, "")
}

func newAttachmentFromReader(name string, r io.Reader, mimeType string) (*Attachment, error) {
	if r == nil {
		return nil, newArgumentError("첨부 파일 %q의 reader가 nil입니다", name)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "첨부 파일 %q을 읽는 중 오류가 발생했습니다", name)
	}
	return NewAttachment(name, data, mimeType)
}
