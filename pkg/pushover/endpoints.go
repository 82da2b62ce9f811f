package pushover

import (
	"net/url"
)

const (
	messagesPath     = "/1/messages.json"
	validateUserPath = "/1/users/validate.json"
)

func receiptPath(receiptID string) string {
	return "/1/receipts/" + url.PathEscape(receiptID) + ".json"
}

func cancelRetriesPath(receiptID string) string {
	return "/1/receipts/" + url.PathEscape(receiptID) + "/cancel.json"
}

// cancelByTagPath 태그는 "key=value" 형태 그대로 경로에 포함됩니다.
func cancelByTagPath(tag MessageTag) string {
	return "/1/receipts/cancel_by_tag/" + url.PathEscape(tag.String()) + ".json"
}
