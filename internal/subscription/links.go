package subscription

import (
	"net/url"
	"strings"
)

const googleSubscribeBase = "https://calendar.google.com/calendar/r?cid="

// FeedURL builds the public feed link for a token.
func FeedURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/calendar-feed?token=" + url.QueryEscape(token)
}

// WebcalURL swaps the http(s) scheme for webcal so that calendar clients
// open a subscription dialog.
func WebcalURL(feedURL string) string {
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(feedURL, scheme) {
			return "webcal://" + strings.TrimPrefix(feedURL, scheme)
		}
	}
	return feedURL
}

func GoogleSubscribeURL(feedURL string) string {
	return googleSubscribeBase + url.QueryEscape(feedURL)
}
