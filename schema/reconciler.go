package schema

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pureflow/pureflow-api/logger"
)

// Reconcile inspects the live schema against the catalog and repairs drift:
// missing tables are created, incompatible tables are dropped and recreated
// empty, and backward-compatible columns are added in place. Running it twice
// in a row is a no-op on the second call.
//
// Destructive repairs lose data. That trade-off is deliberate: the only
// schemas this can encounter are earlier revisions of this same application,
// and carrying a general migration framework for those is not worth it. Every
// destroyed table is logged.
func Reconcile(db *gorm.DB) error {
	specs := Catalog()
	byName := make(map[string]TableSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
	}

	for _, spec := range specs {
		if err := reconcileTable(db, spec, byName); err != nil {
			return err
		}
	}

	// Structural reconciliation done; now content that schema inspection
	// cannot see (reference rows seeded under an old revision).
	for _, spec := range Catalog() {
		if spec.ContentCheck == nil {
			continue
		}
		drifted, reason, err := spec.ContentCheck(db)
		if err != nil {
			return err
		}
		if !drifted {
			continue
		}
		logger.L().Warn("content drift detected, dropping table for reseeding",
			zap.String("table", spec.Name),
			zap.String("reason", reason),
		)
		if err := rebuildTable(db, spec); err != nil {
			return err
		}
	}

	return nil
}

func reconcileTable(db *gorm.DB, spec TableSpec, byName map[string]TableSpec) error {
	m := db.Migrator()

	if !m.HasTable(spec.Model) {
		if err := m.CreateTable(spec.Model); err != nil {
			return fmt.Errorf("failed to create table %s: %w", spec.Name, err)
		}
		logger.L().Info("created missing table", zap.String("table", spec.Name))
		return nil
	}

	// A missing load-bearing column means the table predates the current
	// design; it cannot be patched in place. Side-tables take their owner
	// down with them so the seeder repopulates the pair together.
	for _, column := range spec.Signature {
		if m.HasColumn(spec.Model, column) {
			continue
		}
		target := spec
		if spec.RebuiltWith != "" {
			target = byName[spec.RebuiltWith]
		}
		logger.L().Warn("incompatible table, dropping and recreating",
			zap.String("table", spec.Name),
			zap.String("missing_column", column),
			zap.String("rebuilt_table", target.Name),
		)
		return rebuildTable(db, target)
	}

	// Compatible shape; add any missing optional columns with their declared
	// defaults, preserving rows.
	for _, field := range spec.Additive {
		if m.HasColumn(spec.Model, field) {
			continue
		}
		if err := m.AddColumn(spec.Model, field); err != nil {
			// Partially applied DDL must not be papered over; surface it and
			// let the caller abandon the unit of work.
			return fmt.Errorf("failed to add column %s.%s: %w", spec.Name, field, err)
		}
		logger.L().Info("added missing column",
			zap.String("table", spec.Name),
			zap.String("field", field),
		)
	}

	// Indexes declared beyond the table's creation-time set are added in
	// place so older compatible tables gain them too.
	for _, index := range spec.Indexes {
		if m.HasIndex(spec.Model, index) {
			continue
		}
		if err := m.CreateIndex(spec.Model, index); err != nil {
			return fmt.Errorf("failed to create index %s on %s: %w", index, spec.Name, err)
		}
		logger.L().Info("created missing index",
			zap.String("table", spec.Name),
			zap.String("index", index),
		)
	}

	return nil
}

// rebuildTable drops the table together with its dependent side-tables and
// recreates them empty; the seeder repopulates reference content afterwards.
func rebuildTable(db *gorm.DB, spec TableSpec) error {
	m := db.Migrator()

	targets := append([]interface{}{spec.Model}, spec.DropWith...)
	if err := m.DropTable(targets...); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", spec.Name, err)
	}
	for _, target := range targets {
		if err := m.CreateTable(target); err != nil {
			return fmt.Errorf("failed to recreate table %s: %w", spec.Name, err)
		}
	}
	return nil
}
