package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类型
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotAuthorized      Kind = "not_authorized"
	KindNotFound           Kind = "not_found"
	KindDuplicateWallet    Kind = "duplicate_wallet"
	KindDuplicateUsername  Kind = "duplicate_username"
	KindTokenNotAllowed    Kind = "token_not_allowed"
	KindCampaignNotActive  Kind = "campaign_not_active"
	KindOutsideDateWindow  Kind = "outside_date_window"
	KindActionNotRewarded  Kind = "action_not_rewarded"
	KindVerificationFailed Kind = "verification_failed"
	KindActionNotVerified  Kind = "action_not_verified"
	KindMaxClaimsReached   Kind = "max_claims_reached"
	KindMaxRewardsClaimed  Kind = "max_rewards_claimed"
	KindNotParticipated    Kind = "not_participated"
	KindUnsupportedAction  Kind = "unsupported_action"
	KindInternal           Kind = "internal_error"
)

// Error 业务错误，携带错误类型和可展示的错误信息
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is 按错误类型匹配，支持 errors.Is(err, apperr.New(kind, ""))
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New 创建业务错误
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装底层错误为业务错误
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: err}
}

// Internal 包装存储层等内部错误，对外只暴露通用信息
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "内部错误，请稍后重试", cause: err}
}

// KindOf 提取错误类型，非业务错误返回 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind 判断错误是否为指定类型
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

var statusByKind = map[Kind]int{
	KindValidation:         http.StatusBadRequest,
	KindUnauthenticated:    http.StatusUnauthorized,
	KindForbidden:          http.StatusForbidden,
	KindNotAuthorized:      http.StatusForbidden,
	KindNotFound:           http.StatusNotFound,
	KindDuplicateWallet:    http.StatusConflict,
	KindDuplicateUsername:  http.StatusConflict,
	KindTokenNotAllowed:    http.StatusBadRequest,
	KindCampaignNotActive:  http.StatusConflict,
	KindOutsideDateWindow:  http.StatusConflict,
	KindActionNotRewarded:  http.StatusBadRequest,
	KindVerificationFailed: http.StatusUnprocessableEntity,
	KindActionNotVerified:  http.StatusUnprocessableEntity,
	KindMaxClaimsReached:   http.StatusConflict,
	KindMaxRewardsClaimed:  http.StatusConflict,
	KindNotParticipated:    http.StatusConflict,
	KindUnsupportedAction:  http.StatusBadRequest,
	KindInternal:           http.StatusInternalServerError,
}

// HTTPStatus 错误类型到HTTP状态码的映射
func HTTPStatus(err error) int {
	if status, ok := statusByKind[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
