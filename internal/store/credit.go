package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/resumeforge/resumeforge/internal/model"
)

// CreditStore is the entitlement collaborator of the export pipeline.
// HasCredit and ConsumeCredit mirror the two-call interface of the hosted
// ledger service; ConsumeCredit must be atomic so concurrent exports
// cannot double-spend the last credit.
type CreditStore interface {
	// HasCredit reports whether the owner has at least one credit left.
	HasCredit(ownerID string) (bool, error)

	// ConsumeCredit decrements the owner's balance by exactly one.
	// Returns false (without error) when no credit was available - the
	// conditional decrement and the balance check are one statement.
	ConsumeCredit(ownerID string) (bool, error)

	// Grant adds credits to the owner's balance, creating the account
	// on first grant.
	Grant(ownerID string, amount int) error

	// Balance returns the owner's current balance (0 for unknown owners).
	Balance(ownerID string) (int, error)
}

// creditStore implements CreditStore using GORM.
type creditStore struct {
	db *gorm.DB
}

func newCreditStore(db *gorm.DB) CreditStore {
	return &creditStore{db: db}
}

func (s *creditStore) HasCredit(ownerID string) (bool, error) {
	var account model.CreditAccount
	err := s.db.First(&account, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return account.Balance > 0, nil
}

func (s *creditStore) ConsumeCredit(ownerID string) (bool, error) {
	// Conditional decrement: the WHERE clause guards the balance so two
	// concurrent consumers cannot both take the last credit.
	res := s.db.Model(&model.CreditAccount{}).
		Where("owner_id = ? AND balance > 0", ownerID).
		UpdateColumn("balance", gorm.Expr("balance - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *creditStore) Grant(ownerID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	account := model.CreditAccount{OwnerID: ownerID, Balance: amount}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)}),
	}).Create(&account).Error
}

func (s *creditStore) Balance(ownerID string) (int, error) {
	var account model.CreditAccount
	err := s.db.First(&account, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}
