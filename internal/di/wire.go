//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"langlink/internal/config"
	"langlink/internal/dbmysql"
	"langlink/internal/user"
)

// InitializeHandler builds the full handler graph: repositories over the
// shared DB handle, services on top, HTTP handler last.
func InitializeHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *user.Handler {
	wire.Build(
		dbmysql.NewTxManager,
		user.NewUserRepository,
		user.NewFriendRequestRepository,
		user.NewUserService,
		user.NewFriendService,
		user.NewHandler,
	)
	return &user.Handler{}
}
