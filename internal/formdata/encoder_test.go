package formdata

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Rendering
// =============================================================================

func TestEncoder_AddField_Rendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		field    string
		value    string
		expected string
	}{
		{
			name:     "일반 텍스트",
			field:    "message",
			value:    "Hello world!",
			expected: "--abcdefg\r\nContent-Disposition: form-data; name=\"message\"\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nHello world!\r\n--abcdefg--\r\n",
		},
		{
			name:     "따옴표 포함",
			field:    "message",
			value:    `Hello "world!"`,
			expected: "--abcdefg\r\nContent-Disposition: form-data; name=\"message\"\r\nContent-Type: text/plain; charset=utf-8\r\n\r\nHello \"world!\"\r\n--abcdefg--\r\n",
		},
		{
			name:     "빈 값은 생략",
			field:    "title",
			value:    "",
			expected: "\r\n--abcdefg--\r\n",
		},
		{
			name:     "공백 값은 생략",
			field:    "title",
			value:    "   ",
			expected: "\r\n--abcdefg--\r\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc := New("abcdefg")
			enc.AddField(tt.field, tt.value)

			body, err := enc.Body()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(body))
		})
	}
}

func TestEncoder_AddFile_Rendering(t *testing.T) {
	t.Parallel()

	enc := New("abcdefg")
	enc.AddFile("attachment", "test.txt", "text/plain", []byte("Hello world!"))

	body, err := enc.Body()
	require.NoError(t, err)

	expected := "--abcdefg\r\n" +
		"Content-Disposition: form-data; name=\"attachment\"; filename=\"test.txt\"; filename*=utf-8''test.txt\r\n" +
		"Content-Type: text/plain\r\n\r\n" +
		"Hello world!\r\n--abcdefg--\r\n"
	assert.Equal(t, expected, string(body))
	assert.Empty(t, enc.Fields(), "첨부 파일은 Fields에 포함되지 않아야 합니다")
	assert.Equal(t, 1, enc.Len())
}

func TestEncoder_Boundary(t *testing.T) {
	t.Parallel()

	t.Run("명시적 경계", func(t *testing.T) {
		enc := New("abcdefg")
		assert.Equal(t, "abcdefg", enc.Boundary())
		assert.Equal(t, "multipart/form-data; boundary=abcdefg", enc.ContentType())
	})

	t.Run("임의 경계는 인스턴스마다 다르다", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			b := New("").Boundary()
			require.NoError(t, ValidateBoundary(b))
			assert.True(t, strings.HasPrefix(b, boundaryPrefix))
			_, dup := seen[b]
			require.False(t, dup, "경계 문자열이 중복되었습니다: %s", b)
			seen[b] = struct{}{}
		}
	})

	t.Run("잘못된 경계", func(t *testing.T) {
		assert.Error(t, ValidateBoundary(strings.Repeat("x", 71)))

		_, err := New("bad boundary ").Body()
		assert.Error(t, err)
	})
}

// =============================================================================
// Round trip
// =============================================================================

func TestEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{"token", "apiToken0000000000000000000000"},
		{"user", "defaultUser0000000000000000000"},
		{"message", "줄바꿈\r\n과 유니코드가 포함된 메시지"},
		{"html", "1"},
		{"tags", "a=1,b=2"},
	}

	enc := New("")
	for _, f := range fields {
		enc.AddField(f.Name, f.Value)
	}
	enc.AddFile("attachment", "résumé 보고서.pdf", "application/pdf", []byte{0x25, 0x50, 0x44, 0x46})

	var buf bytes.Buffer
	n, err := enc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	mediaType, params, err := mime.ParseMediaType(enc.ContentType())
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(&buf, params["boundary"])

	var got []Field
	for {
		p, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(p)
		require.NoError(t, err)

		if p.FormName() == "attachment" {
			assert.Equal(t, "résumé 보고서.pdf", p.FileName())
			assert.Equal(t, "application/pdf", p.Header.Get("Content-Type"))
			assert.Equal(t, []byte{0x25, 0x50, 0x44, 0x46}, data)
			continue
		}

		assert.Equal(t, "text/plain; charset=utf-8", p.Header.Get("Content-Type"))
		got = append(got, Field{Name: p.FormName(), Value: string(data)})
	}

	assert.Equal(t, fields, got)
	assert.Equal(t, fields, enc.Fields())
}

// =============================================================================
// File names
// =============================================================================

func TestASCIIFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"test.txt", "test.txt"},
		{"résumé.pdf", "resume.pdf"},
		{"보고서.png", "___.png"},
		{"tab\tname.txt", "tab_name.txt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ASCIIFilename(tt.input))
		})
	}
}

func TestFileDisposition(t *testing.T) {
	t.Parallel()

	got := fileDisposition("attachment", `보고서 "최종".txt`)
	assert.Equal(t, `form-data; name="attachment"; filename="___ \"__\".txt"; filename*=utf-8''%EB%B3%B4%EA%B3%A0%EC%84%9C%20%22%EC%B5%9C%EC%A2%85%22.txt`, got)
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkEncoder_Body(b *testing.B) {
	data := bytes.Repeat([]byte{0xAB}, 64*1024)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		enc := New("abcdefg")
		enc.AddField("token", "apiToken0000000000000000000000")
		enc.AddField("user", "defaultUser0000000000000000000")
		enc.AddField("message", "Hello world!")
		enc.AddFile("attachment", "image.png", "image/png", data)
		if _, err := enc.Body(); err != nil {
			b.Fatal(err)
		}
	}
}
