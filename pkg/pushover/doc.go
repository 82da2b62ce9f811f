// Package pushover Pushover(https://pushover.net) 푸시 알림 HTTP API 클라이언트를 제공합니다.
//
// 메시지는 MessageBuilder의 체이닝 메서드로 구성하며, Client가 기본 수신자를 보충하고
// 유효성을 검사한 뒤 multipart/form-data 본문으로 인코딩하여 전송합니다.
//
//	client, err := pushover.New(pushover.Options{
//		APIToken:       "azGDORePK8gMaC0QOYAMyEEuzJnyUi",
//		DefaultUserKey: "uQiRzpo4DXghDmr9QzzfQu27cmVRsG",
//	})
//	if err != nil {
//		return err
//	}
//
//	resp, err := client.SendMessage(ctx, func(b *pushover.MessageBuilder) {
//		b.WithTitle("백업 실패").
//			WithMessage("nightly 백업 작업이 실패했습니다").
//			WithEmergencyPriority(60*time.Second, time.Hour, "")
//	})
//
// 설정 단계의 오류는 MessageBuilder에 기록되며(첫 번째 오류만 유지), 네트워크 요청 전에 반환됩니다.
// 원격 API가 거부한 요청은 *APIRequestFailedError로 반환되어 API가 보고한 에러 목록과
// 요청 ID를 확인할 수 있습니다.
package pushover
