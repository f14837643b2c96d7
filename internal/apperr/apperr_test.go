package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := New(KindNotFound, "活动不存在: %d", 42)

	assert.Equal(t, "活动不存在: 42", err.Error())
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindValidation))

	// 经过包装后依然可以匹配
	wrapped := fmt.Errorf("查询失败: %w", err)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.True(t, errors.Is(wrapped, New(KindNotFound, "")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInternal, cause, "数据库查询失败")

	assert.Equal(t, "数据库查询失败", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestInternalMasksMessage(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Internal(cause)

	assert.NotContains(t, err.Error(), "pq:")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotAuthorized, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindDuplicateWallet, http.StatusConflict},
		{KindDuplicateUsername, http.StatusConflict},
		{KindTokenNotAllowed, http.StatusBadRequest},
		{KindCampaignNotActive, http.StatusConflict},
		{KindMaxClaimsReached, http.StatusConflict},
		{KindActionNotVerified, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, c := range cases {
		assert.Equal(t, c.status, HTTPStatus(New(c.kind, "x")), string(c.kind))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
