package main

import (
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	applog "github.com/darkkaiser/pushover/pkg/log"
	"github.com/darkkaiser/pushover/pkg/pushover"
	"github.com/spf13/cobra"
)

// sendFlags send 명령의 플래그 값입니다.
type sendFlags struct {
	users     []string
	devices   []string
	tags      []string
	title     string
	url       string
	urlTitle  string
	sound     string
	priority  string
	retry     time.Duration
	expire    time.Duration
	callback  string
	ttl       time.Duration
	timestamp string
	html      bool
	monospace bool
	attach    string
}

func (a *app) sendCommand() *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send [flags] MESSAGE...",
		Short: "알림 메시지를 전송합니다",
		Long: `알림 메시지를 전송합니다.

MESSAGE 인자는 공백으로 이어 붙입니다. "-"를 지정하면 표준 입력에서 본문을 읽습니다.
--user를 지정하지 않으면 설정의 default_user_key로 전송합니다.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			configure, err := f.configurer(message)
			if err != nil {
				return err
			}

			resp, err := a.client.SendMessage(cmd.Context(), configure)
			if err != nil {
				return err
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"request": resp.Request.String(),
				"receipt": resp.Receipt,
			}).Info("알림 메시지를 전송했습니다")

			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	fs := cmd.Flags()
	fs.StringArrayVarP(&f.users, "user", "u", nil, "수신자 사용자/그룹 키 (반복 지정 가능)")
	fs.StringArrayVarP(&f.devices, "device", "d", nil, "대상 디바이스 이름 (반복 지정 가능)")
	fs.StringArrayVar(&f.tags, "tag", nil, "긴급 메시지 태그 KEY=VALUE (반복 지정 가능)")
	fs.StringVarP(&f.title, "title", "t", "", "메시지 제목")
	fs.StringVar(&f.url, "url", "", "보조 URL")
	fs.StringVar(&f.urlTitle, "url-title", "", "보조 URL 제목")
	fs.StringVarP(&f.sound, "sound", "s", "", "알림음 이름 (목록에 없으면 사용자 정의 알림음으로 전송)")
	fs.StringVarP(&f.priority, "priority", "p", "", "우선순위 (lowest, low, normal, high, emergency 또는 -2~2)")
	fs.DurationVar(&f.retry, "retry", 0, "긴급 메시지 재전송 간격 (30s 이상)")
	fs.DurationVar(&f.expire, "expire", 0, "긴급 메시지 재전송 만료 시간")
	fs.StringVar(&f.callback, "callback", "", "긴급 메시지 확인 콜백 URL")
	fs.DurationVar(&f.ttl, "ttl", 0, "메시지 보존 시간 (0: 무제한)")
	fs.StringVar(&f.timestamp, "timestamp", "", "메시지 시각 (RFC3339 또는 Unix 초)")
	fs.BoolVar(&f.html, "html", false, "본문을 HTML로 해석")
	fs.BoolVar(&f.monospace, "monospace", false, "본문을 고정폭 글꼴로 표시")
	fs.StringVarP(&f.attach, "attach", "a", "", "첨부 이미지 파일 경로")
	cmd.MarkFlagsMutuallyExclusive("html", "monospace")

	return cmd
}

// configurer 플래그 값을 메시지 빌더 설정 함수로 변환합니다.
// 형식이 잘못된 플래그는 요청 전에 여기서 거부됩니다.
func (f *sendFlags) configurer(message string) (func(*pushover.MessageBuilder), error) {
	// 빌더는 형식이 잘못된 수신자를 조용히 건너뛰므로 명령행 입력은 미리 검사한다.
	for _, u := range f.users {
		if _, err := pushover.ValidateUserOrGroupKey(u); err != nil {
			return nil, err
		}
	}

	format := pushover.FormatPlaintext
	switch {
	case f.html:
		format = pushover.FormatHTML
	case f.monospace:
		format = pushover.FormatMonospace
	}

	priority := pushover.PriorityNormal
	if f.priority != "" {
		p, err := pushover.ParsePriority(f.priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	tags := make([]pushover.MessageTag, 0, len(f.tags))
	for _, s := range f.tags {
		tag, err := pushover.ParseMessageTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	var timestamp time.Time
	if f.timestamp != "" {
		ts, err := parseTimestamp(f.timestamp)
		if err != nil {
			return nil, err
		}
		timestamp = ts
	}

	return func(b *pushover.MessageBuilder) {
		b.WithRecipients(f.users...).
			WithFormattedMessage(message, format).
			WithTargetDevices(f.devices...).
			WithTags(tags...)

		if f.title != "" {
			b.WithTitle(f.title)
		}
		if f.url != "" {
			b.WithURL(f.url)
		}
		if f.urlTitle != "" {
			b.WithURLTitle(f.urlTitle)
		}
		if f.sound != "" {
			if sound, ok := pushover.ParseSound(f.sound); ok {
				b.WithSound(sound)
			} else {
				b.WithCustomSound(f.sound)
			}
		}
		if f.ttl != 0 {
			b.WithTimeToLive(f.ttl)
		}
		if !timestamp.IsZero() {
			b.WithTimestamp(timestamp)
		}
		if priority != pushover.PriorityNormal || f.retry != 0 || f.expire != 0 || f.callback != "" {
			b.WithPriority(priority, f.retry, f.expire, f.callback)
		}
		if f.attach != "" {
			b.WithAttachmentFile(f.attach)
		}
	}, nil
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.System, "표준 입력을 읽을 수 없습니다")
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return strings.Join(args, " "), nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}

	return time.Time{}, apperrors.Newf(apperrors.InvalidArgument, "timestamp 형식이 올바르지 않습니다: %q (RFC3339 또는 Unix 초)", s)
}
