package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Seed popula o catálogo inicial e o admin. Só roda com o banco vazio.
func Seed(ctx context.Context, db *gorm.DB, adminPassword string, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("seed skipped, catalog already populated")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	services := []models.Service{
		{ID: uuid.NewString(), Name: "Corte de Cabelo", Price: decimal.NewFromInt(50), DurationMinutes: 45},
		{ID: uuid.NewString(), Name: "Barba Completa", Price: decimal.NewFromInt(35), DurationMinutes: 30},
		{ID: uuid.NewString(), Name: "Cabelo + Barba", Price: decimal.NewFromInt(80), DurationMinutes: 75},
		{ID: uuid.NewString(), Name: "Sobrancelha", Price: decimal.NewFromInt(15), DurationMinutes: 15},
	}

	barbers := []models.Barber{
		{ID: uuid.NewString(), Name: "João Silva", Rating: 4.8},
		{ID: uuid.NewString(), Name: "Marcos Santos", Rating: 4.5},
		{ID: uuid.NewString(), Name: "Carlos Oliveira", Rating: 4.9},
	}

	admin := models.User{
		ID:           uuid.NewString(),
		Name:         "Administrador",
		Email:        "admin@barber.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&services).Error; err != nil {
			return err
		}
		if err := tx.Create(&barbers).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Info("seed applied",
		zap.Int("services", len(services)),
		zap.Int("barbers", len(barbers)),
	)
	return nil
}
