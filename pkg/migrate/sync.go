package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// SyncReport lists what a schema sync touched.
type SyncReport struct {
	Tables  int      `json:"tables"`
	Created []string `json:"created"`
	Altered bool     `json:"altered"`
}

// SyncSchema reconciles the database with the models. Outside production every table is
// auto-migrated (columns and indexes added). In production only missing tables are created
// and existing ones are left alone.
func SyncSchema(ctx context.Context, conn *gorm.DB, production bool) (SyncReport, error) {
	if conn == nil {
		return SyncReport{}, fmt.Errorf("db is required")
	}
	tables := models.All()
	report := SyncReport{Tables: len(tables)}
	migrator := conn.WithContext(ctx).Migrator()

	for _, model := range tables {
		if migrator.HasTable(model) {
			continue
		}
		name, err := tableName(conn, model)
		if err != nil {
			return report, err
		}
		if production {
			if err := migrator.CreateTable(model); err != nil {
				return report, fmt.Errorf("create table %s: %w", name, err)
			}
		}
		report.Created = append(report.Created, name)
	}

	if production {
		return report, nil
	}
	if err := migrator.AutoMigrate(tables...); err != nil {
		return report, fmt.Errorf("auto migrate: %w", err)
	}
	report.Altered = true
	return report, nil
}

func tableName(conn *gorm.DB, model any) (string, error) {
	stmt := &gorm.Statement{DB: conn}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("parse model %T: %w", model, err)
	}
	return stmt.Schema.Table, nil
}
