// Package formdata Pushover API 요청 본문으로 사용되는 multipart/form-data 인코더를 제공합니다.
//
// 필드는 추가된 순서대로 렌더링되며, 같은 경계 문자열과 같은 입력에 대해 항상 동일한 바이트열을 생성합니다.
package formdata

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

const (
	textContentType = "text/plain; charset=utf-8"

	boundaryPrefix = "pushover-"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Field 렌더링될 텍스트 필드 하나를 나타냅니다.
type Field struct {
	Name  string
	Value string
}

type part struct {
	name  string
	value string

	// 첨부 파일 파트인 경우에만 설정됩니다.
	isFile   bool
	filename string
	mimeType string
	data     []byte
}

// Encoder 텍스트 필드와 첨부 파일을 multipart/form-data 본문으로 조립합니다.
//
// 하나의 요청에 대해 한 번만 사용하며, 여러 고루틴에서 동시에 사용할 수 없습니다.
type Encoder struct {
	boundary string
	parts    []part
}

// New 새로운 Encoder를 생성합니다.
// boundary가 빈 문자열이면 인스턴스마다 임의의 경계 문자열을 생성합니다.
func New(boundary string) *Encoder {
	if strings.TrimSpace(boundary) == "" {
		boundary = boundaryPrefix + uuid.NewString()
	}

	return &Encoder{boundary: boundary}
}

// ValidateBoundary 경계 문자열이 RFC 2046 규칙을 만족하는지 검사합니다.
func ValidateBoundary(boundary string) error {
	return multipart.NewWriter(io.Discard).SetBoundary(boundary)
}

// Boundary 경계 문자열을 반환합니다.
func (e *Encoder) Boundary() string {
	return e.boundary
}

// ContentType 요청의 Content-Type 헤더 값을 반환합니다.
func (e *Encoder) ContentType() string {
	w := multipart.NewWriter(io.Discard)
	if err := w.SetBoundary(e.boundary); err != nil {
		return "multipart/form-data; boundary=" + e.boundary
	}
	return w.FormDataContentType()
}

// AddField 값이 공백이 아닌 경우에만 텍스트 필드를 추가합니다.
func (e *Encoder) AddField(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}

	e.parts = append(e.parts, part{name: name, value: value})
}

// AddFile 이름이 name인 바이너리 파트를 추가합니다.
func (e *Encoder) AddFile(name, filename, mimeType string, data []byte) {
	e.parts = append(e.parts, part{
		name:     name,
		isFile:   true,
		filename: filename,
		mimeType: mimeType,
		data:     data,
	})
}

// Fields 추가된 텍스트 필드를 순서대로 반환합니다. 첨부 파일은 포함되지 않습니다.
func (e *Encoder) Fields() []Field {
	fields := make([]Field, 0, len(e.parts))
	for _, p := range e.parts {
		if !p.isFile {
			fields = append(fields, Field{Name: p.name, Value: p.value})
		}
	}
	return fields
}

// Len 추가된 파트의 개수를 반환합니다.
func (e *Encoder) Len() int {
	return len(e.parts)
}

// WriteTo 모든 파트를 추가된 순서대로 w에 기록하고 종료 경계로 마무리합니다.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(e.boundary); err != nil {
		return cw.n, err
	}

	for _, p := range e.parts {
		h := make(textproto.MIMEHeader, 2)
		if p.isFile {
			h.Set("Content-Disposition", fileDisposition(p.name, p.filename))
			h.Set("Content-Type", p.mimeType)
		} else {
			h.Set("Content-Disposition", `form-data; name="`+quoteEscaper.Replace(p.name)+`"`)
			h.Set("Content-Type", textContentType)
		}

		pw, err := mw.CreatePart(h)
		if err != nil {
			return cw.n, err
		}

		if p.isFile {
			_, err = pw.Write(p.data)
		} else {
			_, err = io.WriteString(pw, p.value)
		}
		if err != nil {
			return cw.n, err
		}
	}

	err := mw.Close()

	return cw.n, err
}

// Body 렌더링된 본문 전체를 반환합니다.
func (e *Encoder) Body() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
