package approval

import "time"

// Config holds the tunables of the budget approval reconciler
type Config struct {
	// PurchaseNeedLeadTime sets the delivery urgency date of purchase needs
	PurchaseNeedLeadTime time.Duration
	// ReceivableDuePeriod sets the due date of the receivable
	ReceivableDuePeriod time.Duration
	// AlertExpiry sets how long a purchase need alert stays visible
	AlertExpiry time.Duration
	// LockTTL bounds how long one approval may hold the budget lock
	LockTTL time.Duration
	// StrictReceivable turns a failed receivable upsert into a fatal error
	StrictReceivable bool
	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		PurchaseNeedLeadTime: 7 * 24 * time.Hour,
		ReceivableDuePeriod:  30 * 24 * time.Hour,
		AlertExpiry:          7 * 24 * time.Hour,
		LockTTL:              30 * time.Second,
		Now:                  time.Now,
	}
}

// withDefaults fills zero values from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PurchaseNeedLeadTime <= 0 {
		c.PurchaseNeedLeadTime = d.PurchaseNeedLeadTime
	}
	if c.ReceivableDuePeriod <= 0 {
		c.ReceivableDuePeriod = d.ReceivableDuePeriod
	}
	if c.AlertExpiry <= 0 {
		c.AlertExpiry = d.AlertExpiry
	}
	if c.LockTTL <= 0 {
		c.LockTTL = d.LockTTL
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}
