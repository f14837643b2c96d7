package model

// Token 代币信息（合约地址 + 名称），内嵌在预算、奖励规则和奖励记录中
type Token struct {
	Address string `json:"address" gorm:"size:42"`
	Name    string `json:"name"`
}
