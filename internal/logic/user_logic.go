package logic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/jerotaxyz/server/internal/apperr"
	"github.com/jerotaxyz/server/internal/model"
)

var (
	walletRe   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,30}$`)
)

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// UserProfile 用户详情，附带派生的活动列表
type UserProfile struct {
	User                  *model.UserModel `json:"user"`
	CampaignsCreated      []int64          `json:"campaigns_created"`
	CampaignsParticipated []int64          `json:"campaigns_participated"`
}

// UserUpdate 用户资料更新，钱包地址和角色不在可更新范围内
type UserUpdate struct {
	Username  *string
	Email     *string
	Twitter   *string
	Instagram *string
	Spotify   *string
}

// RegisterUser 注册用户
func (l *UserLogic) RegisterUser(user *model.UserModel) error {
	if err := l.validateUser(user); err != nil {
		return err
	}

	// 钱包地址统一存小写，保证唯一性比较大小写不敏感
	user.WalletAddress = strings.ToLower(user.WalletAddress)

	var count int64
	if err := l.db.Model(&model.UserModel{}).
		Where("wallet_address = ?", user.WalletAddress).
		Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count > 0 {
		return apperr.New(apperr.KindDuplicateWallet, "钱包地址已被注册: %s", user.WalletAddress)
	}

	if err := l.db.Model(&model.UserModel{}).
		Where("username = ?", user.Username).
		Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count > 0 {
		return apperr.New(apperr.KindDuplicateUsername, "用户名已被占用: %s", user.Username)
	}

	if err := l.db.Create(user).Error; err != nil {
		return apperr.Internal(fmt.Errorf("创建用户失败: %w", err))
	}

	return nil
}

// GetUser 获取用户
func (l *UserLogic) GetUser(id int64) (*model.UserModel, error) {
	var user model.UserModel
	if err := l.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "用户不存在")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// GetUserByWallet 根据钱包地址获取用户（大小写不敏感）
func (l *UserLogic) GetUserByWallet(address string) (*model.UserModel, error) {
	var user model.UserModel
	if err := l.db.Where("wallet_address = ?", strings.ToLower(address)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "用户不存在")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// GetUserProfile 获取用户详情，包含创建和参与的活动列表
func (l *UserLogic) GetUserProfile(id int64) (*UserProfile, error) {
	user, err := l.GetUser(id)
	if err != nil {
		return nil, err
	}

	var created []int64
	if err := l.db.Model(&model.CampaignModel{}).
		Where("creator_id = ?", id).
		Order("created_at ASC").
		Pluck("id", &created).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	var participated []int64
	if err := l.db.Model(&model.ParticipantModel{}).
		Where("user_id = ?", id).
		Order("created_at ASC").
		Pluck("campaign_id", &participated).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &UserProfile{
		User:                  user,
		CampaignsCreated:      created,
		CampaignsParticipated: participated,
	}, nil
}

// UpdateUser 更新用户资料。只有本人可以更新，钱包地址和角色不可变。
func (l *UserLogic) UpdateUser(id int64, requester *model.UserModel, update UserUpdate) (*model.UserModel, error) {
	if requester.Id != id {
		return nil, apperr.New(apperr.KindNotAuthorized, "只能更新自己的资料")
	}

	user, err := l.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Username != nil {
		if !usernameRe.MatchString(*update.Username) {
			return nil, apperr.New(apperr.KindValidation, "用户名必须为3-30位字母或数字")
		}
		if *update.Username != user.Username {
			var count int64
			if err := l.db.Model(&model.UserModel{}).
				Where("username = ? AND id <> ?", *update.Username, id).
				Count(&count).Error; err != nil {
				return nil, apperr.Internal(err)
			}
			if count > 0 {
				return nil, apperr.New(apperr.KindDuplicateUsername, "用户名已被占用: %s", *update.Username)
			}
		}
		updates["username"] = *update.Username
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Twitter != nil {
		updates["twitter"] = *update.Twitter
	}
	if update.Instagram != nil {
		updates["instagram"] = *update.Instagram
	}
	if update.Spotify != nil {
		updates["spotify"] = *update.Spotify
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := l.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("更新用户失败: %w", err))
	}

	return user, nil
}

// GetUserRewards 分页获取用户奖励账本，按领取时间倒序
func (l *UserLogic) GetUserRewards(userId int64, page, limit int) ([]model.RewardEntryModel, int64, error) {
	if _, err := l.GetUser(userId); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := l.db.Model(&model.RewardEntryModel{}).
		Where("user_id = ?", userId).
		Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	var entries []model.RewardEntryModel
	offset := (page - 1) * limit
	if err := l.db.Where("user_id = ?", userId).
		Order("claimed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, apperr.Internal(err)
	}

	return entries, total, nil
}

// validateUser 校验注册数据
func (l *UserLogic) validateUser(user *model.UserModel) error {
	if !walletRe.MatchString(user.WalletAddress) {
		return apperr.New(apperr.KindValidation, "钱包地址格式不正确，应为0x开头的40位十六进制")
	}
	if !usernameRe.MatchString(user.Username) {
		return apperr.New(apperr.KindValidation, "用户名必须为3-30位字母或数字")
	}
	if !model.ValidUserRole(user.Role) {
		return apperr.New(apperr.KindValidation, "角色必须为 creator 或 fan")
	}
	return nil
}
