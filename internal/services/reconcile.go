package services

import (
	"context"
	"fmt"

	"councilboard/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Reconciler 将 upvotes 计数器与投票表重新对齐。
// 正常路径下计数器由 VoteLedger 同事务维护，这里只用于修复手工改库等异常。
type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// ReconcileCounters sets every upvotes column to its live vote count and
// returns the number of rows that were off.
func (r *Reconciler) ReconcileCounters(ctx context.Context) (int64, error) {
	var fixed int64
	for _, kind := range models.VotableKinds() {
		spec, _ := models.LookupTarget(kind)
		count := fmt.Sprintf("(SELECT COUNT(*) FROM votes WHERE votes.target_type = ? AND votes.target_id = %s.id)", spec.Table)
		sql := fmt.Sprintf("UPDATE %s SET upvotes = %s WHERE upvotes <> %s", spec.Table, count, count)

		res := r.db.WithContext(ctx).Exec(sql, kind, kind)
		if res.Error != nil {
			return fixed, fmt.Errorf("reconcile %s counters: %w", kind, res.Error)
		}
		if res.RowsAffected > 0 {
			log.WithFields(log.Fields{"kind": kind, "rows": res.RowsAffected}).Warn("Upvote counters drifted, repaired")
		}
		fixed += res.RowsAffected
	}
	return fixed, nil
}
