package domain

import "context"

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"size:50;not null" json:"firstName"`
	LastName  string `gorm:"size:50;not null" json:"lastName"`
	Phone     string `gorm:"size:50;not null" json:"phone"`
	Email     string `gorm:"size:50;not null;index" json:"email"`
	Address   string `gorm:"size:50;not null" json:"address"`
	Street    string `gorm:"size:50;not null" json:"street"`
	City      string `gorm:"size:50;not null" json:"city"`
	State     string `gorm:"size:50;not null" json:"state"`
	Zip       string `gorm:"size:50;not null" json:"zip"`
}

func (User) TableName() string { return "users" }

// Assign 用 src 覆盖全部可变字段，ID 保持不变
func (u *User) Assign(src *User) {
	u.FirstName = src.FirstName
	u.LastName = src.LastName
	u.Phone = src.Phone
	u.Email = src.Email
	u.Address = src.Address
	u.Street = src.Street
	u.City = src.City
	u.State = src.State
	u.Zip = src.Zip
}

// UserColumns 可用于查询条件的列（白名单）
var UserColumns = []string{
	"id", "first_name", "last_name", "phone", "email",
	"address", "street", "city", "state", "zip",
}

type UserRepository interface {
	GetAll(ctx context.Context) ([]User, error)
	// Find 查不到返回 nil, nil
	Find(ctx context.Context, conds ...Condition) (*User, error)
	FindAll(ctx context.Context, conds ...Condition) ([]User, error)
	Exists(ctx context.Context, conds ...Condition) (bool, error)
	// Save 在同一事务内提交 ch 中暂存的全部变更；被更新的行已不存在时返回 ErrNotFound
	Save(ctx context.Context, ch *Changes[User]) error
}
