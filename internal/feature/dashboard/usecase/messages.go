package usecase

import (
	"errors"
	"strings"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
)

// バナーに表示するメッセージ
const (
	MsgRateLimited = "API rate limit reached. Please wait a minute and try again."
	MsgNoData      = "No data found. Please check the symbol and try again."
	MsgEmptySymbol = "Please enter a stock symbol."
	MsgGeneric     = "Failed to load stock data. Please try again later."
)

// UserMessage はエラーの種類ごとにユーザー向けのメッセージを返します。
// 無効な銘柄の場合は、取得元が返したメッセージをそのまま使います。
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrRateLimited):
		return MsgRateLimited
	case errors.Is(err, domain.ErrInvalidSymbol):
		// "invalid symbol: <upstream message>" から取得元のメッセージを取り出す
		if msg := upstreamMessage(err, domain.ErrInvalidSymbol); msg != "" {
			return msg
		}
		return MsgNoData
	case errors.Is(err, domain.ErrNoData):
		return MsgNoData
	case errors.Is(err, domain.ErrEmptySymbol):
		return MsgEmptySymbol
	default:
		return MsgGeneric
	}
}

func upstreamMessage(err, sentinel error) string {
	_, msg, found := strings.Cut(err.Error(), sentinel.Error()+":")
	if !found {
		return ""
	}
	return strings.TrimSpace(msg)
}
