package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// GormSink grava o evento na tabela audit_logs.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Name() string { return "db" }

func (s *GormSink) Write(ctx context.Context, ev Event) error {
	log := models.AuditLog{
		ActorID:  ev.ActorID,
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metadataJSON(ev.Metadata),
	}
	if !ev.At.IsZero() {
		log.CreatedAt = ev.At
	}

	return s.db.WithContext(ctx).Create(&log).Error
}

func metadataJSON(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
