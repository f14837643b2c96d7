package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jerotaxyz/server/internal/database"
	"github.com/jerotaxyz/server/internal/model"
)

const fanWallet = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库随连接销毁，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	return db
}

func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/whoami", Identity(db), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func TestIdentityMissingHeader(t *testing.T) {
	r := newTestRouter(newTestDB(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthenticated")
}

func TestIdentityUnknownWallet(t *testing.T) {
	r := newTestRouter(newTestDB(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderWalletAddress, fanWallet)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdentityInjectsUser(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.UserModel{
		WalletAddress: fanWallet,
		Username:      "alice123",
		Role:          model.UserRoleFan,
	}).Error)

	r := newTestRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	// 大小写不同的地址也能定位到同一个用户
	req.Header.Set(HeaderWalletAddress, "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice123")
}

func TestCurrentUserWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
