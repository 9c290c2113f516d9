package filter

import (
	"github.com/hanachat/contentguard/internal/constants"
)

// fallbackMessages are the deterministic strings shown in place of a
// blocked message, per locale.
var fallbackMessages = map[string]string{
	constants.LocaleJapanese: "このメッセージは表示できません。内容がコンテンツ設定に適合していません。",
	constants.LocaleEnglish:  "This message cannot be displayed because it does not meet the content settings.",
}

// BlockedFallback returns the localized fallback string for a blocked
// message. Unknown locales fall back to Japanese, the application's
// primary locale.
func BlockedFallback(locale string) string {
	if msg, ok := fallbackMessages[locale]; ok {
		return msg
	}
	return fallbackMessages[constants.LocaleJapanese]
}
