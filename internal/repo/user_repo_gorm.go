package repo

import (
	"gorm.io/gorm"

	"user-directory-api/internal/domain"
)

type UserRepo struct {
	*GormRepository[domain.User]
}

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{GormRepository: NewGormRepository[domain.User](db, domain.UserColumns, "id")}
}
