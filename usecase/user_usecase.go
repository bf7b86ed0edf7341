package usecase

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"homeland-merchant-backend/model"
)

type UserRepository interface {
	Insert(user *model.User) error
	GetByEmail(email string) (*model.User, error)
}

type UserUsecase struct {
	repo UserRepository
}

func NewUserUsecase(repo UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

// RegisterUser is idempotent on email: a returning player just gets their
// existing account back.
func (u *UserUsecase) RegisterUser(name, email string) (*model.User, error) {
	existing, err := u.repo.GetByEmail(email)
	if err == nil && existing != nil {
		return existing, nil
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	id := ulid.MustNew(ulid.Now(), entropy).String()

	user := &model.User{
		ID:    id,
		Name:  name,
		Email: email,
	}
	if err := u.repo.Insert(user); err != nil {
		return nil, err
	}
	return user, nil
}
