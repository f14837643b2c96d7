package verifier

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/model"
)

// 平台标识
const (
	PlatformSpotify   = "spotify"
	PlatformYoutube   = "youtube"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
	PlatformUnknown   = "unknown"
)

// Result 行为验证结果
type Result struct {
	Verified         bool             `json:"verified"`
	Platform         string           `json:"platform"`
	Action           model.ActionType `json:"action"`
	Timestamp        time.Time        `json:"timestamp"`
	ProofFingerprint string           `json:"proof_fingerprint"`
}

// Verifier 行为验证器。真实的平台API校验在此接口之后接入，
// 当前实现对所有合法的行为类型直接放行。
type Verifier struct{}

// New 创建行为验证器
func New() *Verifier {
	return &Verifier{}
}

// Verify 验证粉丝行为。行为类型不合法时返回 UnsupportedAction。
func (v *Verifier) Verify(action model.ActionType, contentUrl, proof, actorAddress string) (*Result, error) {
	if !model.ValidActionType(action) {
		return nil, apperr.New(apperr.KindUnsupportedAction, "不支持的行为类型: %s", action)
	}

	return &Result{
		Verified:         true,
		Platform:         PlatformFromURL(contentUrl),
		Action:           action,
		Timestamp:        time.Now(),
		ProofFingerprint: Fingerprint(action, contentUrl, proof),
	}, nil
}

// PlatformFromURL 根据内容链接推断平台
func PlatformFromURL(contentUrl string) string {
	url := strings.ToLower(contentUrl)

	switch {
	case strings.Contains(url, "spotify.com"):
		return PlatformSpotify
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return PlatformYoutube
	case strings.Contains(url, "twitter.com"), strings.Contains(url, "x.com"):
		return PlatformTwitter
	case strings.Contains(url, "instagram.com"):
		return PlatformInstagram
	default:
		return PlatformUnknown
	}
}

// Fingerprint 计算凭证指纹。只依赖行为类型、内容链接和凭证内容，
// 同样的输入永远得到同样的指纹，参与和领奖时计算的指纹才能对得上。
func Fingerprint(action model.ActionType, contentUrl, proof string) string {
	sum := crypto.Keccak256([]byte(action), []byte("|"), []byte(contentUrl), []byte("|"), []byte(proof))
	return hexutil.Encode(sum)
}
