package pushover

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/darkkaiser/pushover/internal/formdata"
	applog "github.com/darkkaiser/pushover/pkg/log"
)

const builderComponent = "pushover.builder"

// MessageBuilder 전송할 메시지를 체이닝 방식으로 구성합니다.
//
// 설정 메서드는 값을 검증한 뒤 저장하며, 검증에 실패하면 첫 번째 에러를 기록하고
// 이후의 설정 호출은 무시합니다. 기록된 에러는 Err 또는 Validate로 확인합니다.
//
// MessageBuilder는 한 번의 요청에만 사용하며 동시에 여러 고루틴에서 사용할 수 없습니다.
type MessageBuilder struct {
	recipients []string
	devices    []string

	message string
	format  Format
	title   string

	url      string
	urlTitle string
	sound    string

	priority Priority
	retry    time.Duration
	expire   time.Duration
	callback string

	ttl       time.Duration
	timestamp time.Time

	attachment *Attachment
	tags       []MessageTag

	err error
}

// NewMessageBuilder 비어 있는 MessageBuilder를 생성합니다.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

// Err 설정 중 처음 발생한 에러를 반환합니다.
func (b *MessageBuilder) Err() error {
	return b.err
}

func (b *MessageBuilder) fail(err error) *MessageBuilder {
	if b.err == nil && err != nil {
		b.err = err
		applog.WithComponent(builderComponent).WithError(err).Debug("메시지 설정 실패: 이후 설정은 무시됩니다")
	}
	return b
}

// WithRecipient 수신자(사용자 또는 그룹 키)를 추가합니다.
func (b *MessageBuilder) WithRecipient(key string) *MessageBuilder {
	return b.WithRecipients(key)
}

// WithRecipients 수신자 목록을 추가합니다.
// 빈 키와 형식이 올바르지 않은 키는 에러 없이 건너뜁니다.
func (b *MessageBuilder) WithRecipients(keys ...string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	for _, raw := range keys {
		key, err := ValidateUserOrGroupKey(raw)
		if err != nil {
			applog.WithComponentAndFields(builderComponent, applog.Fields{
				"user": applog.MaskSensitiveData(strings.TrimSpace(raw)),
			}).Debug("형식이 올바르지 않은 수신자 키를 건너뜁니다")
			continue
		}
		if key == "" {
			continue
		}

		b.recipients = append(b.recipients, key)
	}

	return b
}

// WithMessage 일반 텍스트 메시지 본문을 설정합니다.
func (b *MessageBuilder) WithMessage(text string) *MessageBuilder {
	return b.WithFormattedMessage(text, FormatPlaintext)
}

// WithFormattedMessage 표시 형식과 함께 메시지 본문을 설정합니다.
func (b *MessageBuilder) WithFormattedMessage(text string, format Format) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if !format.IsValid() {
		return b.fail(newValidationErrorf("format", ReasonOutOfRange, "알 수 없는 메시지 형식입니다: %d", int(format)))
	}

	message, err := ValidateMessage(text)
	if err != nil {
		return b.fail(err)
	}

	b.message = message
	b.format = format

	return b
}

// WithTitle 메시지 제목을 설정합니다. 설정하지 않으면 애플리케이션 이름이 사용됩니다.
func (b *MessageBuilder) WithTitle(title string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	v, err := ValidateTitle(title)
	if err != nil {
		return b.fail(err)
	}
	b.title = v

	return b
}

// WithURL 메시지에 함께 표시할 보조 URL을 설정합니다.
func (b *MessageBuilder) WithURL(url string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	v, err := ValidateURL(url)
	if err != nil {
		return b.fail(err)
	}
	b.url = v

	return b
}

// WithURLTitle 보조 URL 대신 표시할 제목을 설정합니다.
func (b *MessageBuilder) WithURLTitle(title string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	v, err := ValidateURLTitle(title)
	if err != nil {
		return b.fail(err)
	}
	b.urlTitle = v

	return b
}

// WithURLWithTitle 보조 URL과 제목을 함께 설정합니다. 둘 중 하나라도 유효하지 않으면 어느 것도 저장하지 않습니다.
func (b *MessageBuilder) WithURLWithTitle(url, title string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	u, err := ValidateURL(url)
	if err != nil {
		return b.fail(err)
	}
	t, err := ValidateURLTitle(title)
	if err != nil {
		return b.fail(err)
	}

	b.url, b.urlTitle = u, t

	return b
}

// WithSound 미리 정의된 알림음을 설정합니다.
func (b *MessageBuilder) WithSound(sound Sound) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if !sound.IsValid() {
		return b.fail(newValidationErrorf("sound", ReasonOutOfRange, "알 수 없는 알림음입니다: %d", int(sound)))
	}
	b.sound = sound.String()

	return b
}

// WithCustomSound 사용자가 업로드한 알림음 등 임의의 알림음 이름을 설정합니다.
func (b *MessageBuilder) WithCustomSound(sound string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	b.sound = strings.TrimSpace(sound)

	return b
}

func (b *MessageBuilder) WithLowestPriority() *MessageBuilder {
	return b.WithPriority(PriorityLowest, 0, 0, "")
}

func (b *MessageBuilder) WithLowPriority() *MessageBuilder {
	return b.WithPriority(PriorityLow, 0, 0, "")
}

func (b *MessageBuilder) WithNormalPriority() *MessageBuilder {
	return b.WithPriority(PriorityNormal, 0, 0, "")
}

func (b *MessageBuilder) WithHighPriority() *MessageBuilder {
	return b.WithPriority(PriorityHigh, 0, 0, "")
}

// WithEmergencyPriority 긴급 우선순위를 설정합니다.
// 서버는 수신자가 확인할 때까지 retry 간격으로 재전송하며 expire가 지나면 중단합니다.
// callback이 비어 있지 않으면 확인 시 해당 URL이 호출됩니다.
func (b *MessageBuilder) WithEmergencyPriority(retry, expire time.Duration, callback string) *MessageBuilder {
	return b.WithPriority(PriorityEmergency, retry, expire, callback)
}

// WithPriority 우선순위를 설정합니다.
//
// retry, expire, callback은 PriorityEmergency에서만 사용할 수 있습니다.
// PriorityEmergency는 30초 이상의 retry와 0보다 큰 expire가 필요하고,
// 그 외 우선순위에서는 세 값이 모두 비어 있어야 합니다.
func (b *MessageBuilder) WithPriority(priority Priority, retry, expire time.Duration, callback string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if !priority.IsValid() {
		return b.fail(newValidationErrorf("priority", ReasonOutOfRange, "알 수 없는 우선순위입니다: %d", int(priority)))
	}

	callback = strings.TrimSpace(callback)

	if priority == PriorityEmergency {
		switch {
		case retry == 0:
			return b.fail(newValidationErrorf("retry", ReasonRequired, "긴급 우선순위에는 재전송 간격이 필요합니다"))
		case retry < MinEmergencyRetry:
			return b.fail(newValidationErrorf("retry", ReasonTooSmall, "재전송 간격은 %s 이상이어야 합니다 (현재 %s)", MinEmergencyRetry, retry))
		case expire <= 0:
			return b.fail(newValidationErrorf("expire", ReasonRequired, "긴급 우선순위에는 만료 시간이 필요합니다"))
		}
	} else {
		switch {
		case retry != 0:
			return b.fail(newValidationErrorf("retry", ReasonNotSupported, "%s 우선순위에서는 재전송 간격을 지정할 수 없습니다", priority))
		case expire != 0:
			return b.fail(newValidationErrorf("expire", ReasonNotSupported, "%s 우선순위에서는 만료 시간을 지정할 수 없습니다", priority))
		case callback != "":
			return b.fail(newValidationErrorf("callback", ReasonNotSupported, "%s 우선순위에서는 콜백 URL을 지정할 수 없습니다", priority))
		}
	}

	b.priority = priority
	b.retry = retry
	b.expire = expire
	b.callback = callback

	return b
}

// WithTimeToLive 메시지가 기기에서 자동 삭제되기까지의 시간을 설정합니다. 0이면 전송하지 않습니다.
func (b *MessageBuilder) WithTimeToLive(ttl time.Duration) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if ttl < 0 {
		return b.fail(newValidationErrorf("ttl", ReasonOutOfRange, "음수일 수 없습니다 (현재 %s)", ttl))
	}
	b.ttl = ttl

	return b
}

// WithTimestamp 메시지에 표시할 시각을 설정합니다. zero value이면 전송하지 않습니다.
func (b *MessageBuilder) WithTimestamp(t time.Time) *MessageBuilder {
	if b.err != nil {
		return b
	}

	b.timestamp = t

	return b
}

// WithAttachmentFile 파일 경로의 내용을 첨부합니다. 파일 전체를 메모리로 읽습니다.
func (b *MessageBuilder) WithAttachmentFile(path string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if strings.TrimSpace(path) == "" {
		return b.fail(newArgumentError("첨부 파일 경로가 비어 있습니다"))
	}

	return b.setAttachment(newAttachmentFromFile(path))
}

// WithAttachmentFrom 열린 파일의 현재 위치부터 끝까지 읽어 첨부합니다. 파일은 닫지 않습니다.
func (b *MessageBuilder) WithAttachmentFrom(f *os.File) *MessageBuilder {
	if b.err != nil {
		return b
	}

	if f == nil {
		return b.fail(newArgumentError("첨부할 파일이 nil입니다"))
	}

	return b.setAttachment(newAttachmentFromReader(filepath.Base(f.Name()), f, ""))
}

// WithAttachmentReader r의 내용을 끝까지 읽어 name이라는 이름으로 첨부합니다.
// mimeType이 비어 있으면 자동으로 판별합니다.
func (b *MessageBuilder) WithAttachmentReader(name string, r io.Reader, mimeType string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	return b.setAttachment(newAttachmentFromReader(name, r, mimeType))
}

// WithAttachment 바이트 데이터를 name이라는 이름으로 첨부합니다.
// mimeType이 비어 있으면 자동으로 판별합니다.
func (b *MessageBuilder) WithAttachment(name string, data []byte, mimeType string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	return b.setAttachment(NewAttachment(name, data, mimeType))
}

func (b *MessageBuilder) setAttachment(a *Attachment, err error) *MessageBuilder {
	if err != nil {
		return b.fail(err)
	}
	b.attachment = a
	return b
}

// WithTag 태그를 추가합니다.
func (b *MessageBuilder) WithTag(key, value string) *MessageBuilder {
	return b.WithTags(NewMessageTag(key, value))
}

// WithTags 태그 목록을 추가합니다. 중복은 제거하지 않습니다.
func (b *MessageBuilder) WithTags(tags ...MessageTag) *MessageBuilder {
	if b.err != nil {
		return b
	}

	b.tags = append(b.tags, tags...)

	return b
}

// WithTargetDevice 메시지를 받을 기기를 추가합니다. 지정하지 않으면 수신자의 모든 기기로 전송됩니다.
func (b *MessageBuilder) WithTargetDevice(device string) *MessageBuilder {
	return b.WithTargetDevices(device)
}

// WithTargetDevices 메시지를 받을 기기 목록을 추가합니다.
func (b *MessageBuilder) WithTargetDevices(devices ...string) *MessageBuilder {
	if b.err != nil {
		return b
	}

	b.devices = append(b.devices, devices...)

	return b
}

// addDefaultUserIfNeeded 지정된 수신자가 없을 때 클라이언트의 기본 사용자를 수신자로 추가합니다.
func (b *MessageBuilder) addDefaultUserIfNeeded(defaultUserKey string) {
	if len(b.recipients) == 0 && defaultUserKey != "" {
		b.recipients = append(b.recipients, defaultUserKey)
	}
}

// Validate 설정 중 발생한 에러를 먼저 반환하고, 수신자 수와 메시지 본문이 요건을 충족하는지 확인합니다.
func (b *MessageBuilder) Validate() error {
	if b.err != nil {
		return b.err
	}

	if n := len(b.recipients); n > MaxRecipients {
		return newValidationErrorf("user", ReasonTooMany, "수신자는 최대 %d명까지 지정할 수 있습니다 (현재 %d명)", MaxRecipients, n)
	}
	if len(b.recipients) == 0 {
		return newValidationErrorf("user", ReasonRequired, "수신자가 지정되지 않았고 기본 사용자도 설정되지 않았습니다")
	}
	if b.message == "" {
		return newValidationErrorf("message", ReasonRequired, "메시지 본문은 필수입니다")
	}

	return nil
}

// render 설정된 값을 API가 기대하는 순서대로 폼 필드에 기록합니다. 값이 없는 필드는 기록하지 않습니다.
func (b *MessageBuilder) render(enc *formdata.Encoder) {
	enc.AddField("user", strings.Join(distinctSorted(b.recipients), ","))
	enc.AddField("message", b.message)
	enc.AddField("title", b.title)

	switch b.format {
	case FormatMonospace:
		enc.AddField("monospace", "1")
	case FormatHTML:
		enc.AddField("html", "1")
	}

	enc.AddField("device", strings.Join(b.devices, ","))
	enc.AddField("url", b.url)
	enc.AddField("url_title", b.urlTitle)
	enc.AddField("sound", b.sound)

	if secs := int64(b.ttl / time.Second); secs > 0 {
		enc.AddField("ttl", strconv.FormatInt(secs, 10))
	}
	if !b.timestamp.IsZero() {
		enc.AddField("timestamp", strconv.FormatInt(b.timestamp.Unix(), 10))
	}

	if b.priority != PriorityNormal {
		enc.AddField("priority", strconv.Itoa(int(b.priority)))
	}
	if b.priority == PriorityEmergency {
		enc.AddField("retry", strconv.FormatInt(int64(b.retry/time.Second), 10))
		enc.AddField("expire", strconv.FormatInt(int64(b.expire/time.Second), 10))
		enc.AddField("callback", b.callback)
	}

	if len(b.tags) > 0 {
		tags := make([]string, 0, len(b.tags))
		for _, tag := range b.tags {
			tags = append(tags, tag.String())
		}
		enc.AddField("tags", strings.Join(tags, ","))
	}

	if b.attachment != nil {
		enc.AddFile("attachment", b.attachment.Name, b.attachment.MIMEType, b.attachment.Data)
	}
}

func distinctSorted(values []string) []string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
