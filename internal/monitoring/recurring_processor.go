package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

// frequency descriptors understood by cron.ParseStandard.
var frequencySpecs = map[string]string{
	"daily":   "@daily",
	"weekly":  "@weekly",
	"monthly": "@monthly",
	"yearly":  "@annually",
}

// RecurringProcessor materializes due recurring transactions into the ledger.
type RecurringProcessor struct {
	recurringSvc    services.RecurringServiceProvider
	transactionSvc  services.TransactionServiceProvider
	notificationSvc services.NotificationServiceProvider
	insightSvc      services.InsightServiceProvider
	ticker          *time.Ticker
	done            chan bool
}

// NewRecurringProcessor creates a new processor instance.
func NewRecurringProcessor(recurringSvc services.RecurringServiceProvider, transactionSvc services.TransactionServiceProvider, notificationSvc services.NotificationServiceProvider, insightSvc services.InsightServiceProvider) *RecurringProcessor {
	return &RecurringProcessor{
		recurringSvc:    recurringSvc,
		transactionSvc:  transactionSvc,
		notificationSvc: notificationSvc,
		insightSvc:      insightSvc,
		done:            make(chan bool),
	}
}

// Run starts the processor's ticking loop.
func (p *RecurringProcessor) Run() {
	log.Info().Msg("Starting recurring transaction processor...")
	p.ticker = time.NewTicker(1 * time.Minute)
	defer p.ticker.Stop()

	// Run once immediately on start
	p.processDue(time.Now())

	for {
		select {
		case <-p.done:
			log.Info().Msg("Stopping recurring transaction processor.")
			return
		case <-p.ticker.C:
			p.processDue(time.Now())
		}
	}
}

// Stop halts the processor.
func (p *RecurringProcessor) Stop() {
	p.done <- true
}

// processDue queries active templates and materializes those whose period has elapsed.
func (p *RecurringProcessor) processDue(now time.Time) {
	templates, err := p.recurringSvc.GetAllActive()
	if err != nil {
		log.Error().Err(err).Msg("Recurring processor: failed to retrieve active templates")
		return
	}

	for _, rt := range templates {
		if due, err := isDue(rt, now); err != nil {
			log.Error().Err(err).Str("recurring_id", rt.ID).Msg("Recurring processor: bad template")
			continue
		} else if !due {
			continue
		}
		p.materialize(rt, now)
	}
}

// isDue reports whether a template should produce a transaction at the given time.
func isDue(rt models.RecurringTransaction, now time.Time) (bool, error) {
	spec, ok := frequencySpecs[rt.Frequency]
	if !ok {
		spec = rt.Frequency // allow raw cron expressions
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return false, err
	}

	start, err := time.ParseInLocation("2006-01-02", rt.StartDate, now.Location())
	if err != nil {
		return false, err
	}
	if now.Before(start) {
		return false, nil
	}

	if rt.EndDate != nil && *rt.EndDate != "" {
		end, err := time.ParseInLocation("2006-01-02", *rt.EndDate, now.Location())
		if err != nil {
			return false, err
		}
		// End date is inclusive.
		if now.After(end.AddDate(0, 0, 1)) {
			return false, nil
		}
	}

	if rt.LastProcessed == nil || *rt.LastProcessed == "" {
		return true, nil
	}
	last, err := time.ParseInLocation("2006-01-02", *rt.LastProcessed, now.Location())
	if err != nil {
		return false, err
	}
	return now.After(schedule.Next(last)), nil
}

// materialize inserts the ledger entry and stamps the template.
func (p *RecurringProcessor) materialize(rt models.RecurringTransaction, now time.Time) {
	today := now.Format("2006-01-02")

	_, err := p.transactionSvc.AddTransaction(models.Transaction{
		UserID:      rt.UserID,
		Type:        rt.Type,
		Category:    rt.Category,
		Amount:      rt.Amount,
		Date:        today,
		Description: rt.Description,
		Merchant:    rt.Merchant,
	})
	if err != nil {
		log.Error().Err(err).Str("recurring_id", rt.ID).Msg("Recurring processor: failed to add transaction")
		return
	}

	if err := p.recurringSvc.MarkProcessed(rt.ID, today); err != nil {
		log.Error().Err(err).Str("recurring_id", rt.ID).Msg("Recurring processor: failed to stamp template")
	}
	p.insightSvc.Invalidate(rt.UserID)
}
