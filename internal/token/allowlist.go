package token

import (
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/config"
	"github.com/jerotaxyz/server/internal/logger"
	"github.com/jerotaxyz/server/internal/model"
)

// DefaultCacheTTL 白名单缓存默认有效期
const DefaultCacheTTL = 5 * time.Minute

// Source 白名单数据源
type Source interface {
	FetchTokens() ([]model.Token, error)
}

// ConfigSource 基于配置文件的白名单数据源
type ConfigSource struct {
	tokens []model.Token
}

// NewConfigSource 从配置创建白名单数据源
func NewConfigSource(cfg config.AllowlistConfig) *ConfigSource {
	tokens := make([]model.Token, 0, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tokens = append(tokens, model.Token{Address: t.Address, Name: t.Name})
	}
	return &ConfigSource{tokens: tokens}
}

func (s *ConfigSource) FetchTokens() ([]model.Token, error) {
	return s.tokens, nil
}

// Allowlist 代币白名单，带TTL缓存
type Allowlist struct {
	source Source
	ttl    time.Duration

	mu        sync.RWMutex
	tokens    map[string]model.Token // key为归一化后的合约地址
	expiresAt time.Time
}

// NewAllowlist 创建代币白名单
func NewAllowlist(source Source, ttl time.Duration) *Allowlist {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Allowlist{
		source: source,
		ttl:    ttl,
	}
}

// NormalizeAddress 归一化合约地址，用于大小写不敏感的比较
func NormalizeAddress(address string) string {
	if common.IsHexAddress(address) {
		return strings.ToLower(common.HexToAddress(address).Hex())
	}
	return strings.ToLower(address)
}

// snapshot 返回当前缓存，过期时触发一次刷新
func (a *Allowlist) snapshot() (map[string]model.Token, error) {
	a.mu.RLock()
	if a.tokens != nil && time.Now().Before(a.expiresAt) {
		tokens := a.tokens
		a.mu.RUnlock()
		return tokens, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// 双重检查，保证过期后只刷新一次
	if a.tokens != nil && time.Now().Before(a.expiresAt) {
		return a.tokens, nil
	}

	fetched, err := a.source.FetchTokens()
	if err != nil {
		// 刷新失败时沿用旧缓存
		if a.tokens != nil {
			logger.Warn("Failed to refresh token allowlist, serving stale cache: %v", err)
			return a.tokens, nil
		}
		return nil, apperr.Wrap(apperr.KindInternal, err, "代币白名单加载失败")
	}

	tokens := make(map[string]model.Token, len(fetched))
	for _, t := range fetched {
		tokens[NormalizeAddress(t.Address)] = t
	}

	a.tokens = tokens
	a.expiresAt = time.Now().Add(a.ttl)
	logger.Debug("Token allowlist refreshed, %d tokens", len(tokens))

	return tokens, nil
}

// AllowedTokens 获取白名单中的所有代币
func (a *Allowlist) AllowedTokens() ([]model.Token, error) {
	snapshot, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	tokens := make([]model.Token, 0, len(snapshot))
	for _, t := range snapshot {
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// IsAllowed 判断代币地址是否在白名单中（大小写不敏感）
func (a *Allowlist) IsAllowed(address string) (bool, error) {
	snapshot, err := a.snapshot()
	if err != nil {
		return false, err
	}

	_, ok := snapshot[NormalizeAddress(address)]
	return ok, nil
}

// TokenInfo 获取白名单中代币的信息，不存在时返回nil
func (a *Allowlist) TokenInfo(address string) (*model.Token, error) {
	snapshot, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	if t, ok := snapshot[NormalizeAddress(address)]; ok {
		return &t, nil
	}
	return nil, nil
}

// ValidateCampaignTokens 校验活动的预算代币和所有奖励规则代币都在白名单中。
// 任一代币不在白名单时返回 TokenNotAllowed，整个活动都不应被持久化。
func (a *Allowlist) ValidateCampaignTokens(budgetToken model.Token, ruleTokens []model.Token) error {
	snapshot, err := a.snapshot()
	if err != nil {
		return err
	}

	if _, ok := snapshot[NormalizeAddress(budgetToken.Address)]; !ok {
		return apperr.New(apperr.KindTokenNotAllowed, "预算代币不在白名单中: %s", budgetToken.Address)
	}

	for _, t := range ruleTokens {
		if _, ok := snapshot[NormalizeAddress(t.Address)]; !ok {
			return apperr.New(apperr.KindTokenNotAllowed, "奖励代币不在白名单中: %s", t.Address)
		}
	}

	return nil
}
