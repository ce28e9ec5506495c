package services

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"silvercoin/internal/logger"
	"silvercoin/internal/models"
	"silvercoin/internal/period"
)

type auditService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, log: logger.Named("audit")}
}

// Log appends an entry to the audit trail. A failed write never fails the
// operation being audited.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}

	if len(changes) > 0 {
		data, err := json.Marshal(auditValues(changes))
		if err != nil {
			s.log.Warnw("dropping unencodable audit changes", "action", action, "error", err)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		s.log.Errorw("failed to write audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

// auditValues renders money with two decimals and dates as calendar days,
// the way they are stored. Nil values are dropped.
func auditValues(changes map[string]any) map[string]any {
	out := make(map[string]any, len(changes))
	for k, v := range changes {
		switch v := v.(type) {
		case nil:
			continue
		case decimal.Decimal:
			out[k] = v.StringFixed(2)
		case *decimal.Decimal:
			if v != nil {
				out[k] = v.StringFixed(2)
			}
		case time.Time:
			out[k] = v.Format(period.DateLayout)
		case *time.Time:
			if v != nil {
				out[k] = v.Format(period.DateLayout)
			}
		default:
			out[k] = v
		}
	}
	return out
}
