package services

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/fintrackhq/fintrack-be/internal/models"
)

const (
	summaryCacheTTL     = 10 * time.Minute
	summaryCacheCleanup = 30 * time.Minute
)

// InsightServiceProvider defines the interface for dashboard insight services.
type InsightServiceProvider interface {
	GetDashboardSummary(userID string) (models.MonthlySummary, error)
	Invalidate(userID string)
}

// InsightService computes dashboard aggregates, caching them per user until
// the next ledger write.
type InsightService struct {
	transactionSvc TransactionServiceProvider
	cache          *gocache.Cache
}

// NewInsightService creates a new InsightService.
func NewInsightService(transactionSvc TransactionServiceProvider) *InsightService {
	return &InsightService{
		transactionSvc: transactionSvc,
		cache:          gocache.New(summaryCacheTTL, summaryCacheCleanup),
	}
}

// GetDashboardSummary returns the cached current-month summary, computing it on a miss.
func (s *InsightService) GetDashboardSummary(userID string) (models.MonthlySummary, error) {
	if cached, found := s.cache.Get(userID); found {
		if summary, ok := cached.(models.MonthlySummary); ok {
			return summary, nil
		}
	}

	summary, err := s.transactionSvc.GetMonthlySummary(userID, time.Now())
	if err != nil {
		return models.MonthlySummary{}, err
	}
	s.cache.Set(userID, summary, summaryCacheTTL)
	return summary, nil
}

// Invalidate drops a user's cached summary after a ledger write.
func (s *InsightService) Invalidate(userID string) {
	s.cache.Delete(userID)
}
