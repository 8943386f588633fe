package mysql

import (
	"errors"
	"log"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Upsert(profile *domain.Profile) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		log.Printf("Profile upsert error: %v", err)
	}
	return err
}

func (r *profileRepo) FindByAccountID(accountID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.First(&p, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) RoleOf(accountID string) (domain.Role, error) {
	var ar domain.AccountRole
	if err := r.db.First(&ar, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RoleCustomer, nil
		}
		return "", err
	}
	return ar.Role, nil
}

func (r *roleRepo) Assign(accountID string, role domain.Role) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		UpdateAll: true,
	}).Create(&domain.AccountRole{AccountID: accountID, Role: role}).Error
}
