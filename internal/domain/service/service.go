package service

import (
	"time"

	"github.com/diegoclair/team-assistant-bot/internal/domain"
)

// Options tunes the reminder engine. Zero values fall back to the domain
// defaults.
type Options struct {
	MinLeadTime       time.Duration
	NotifyTimeout     time.Duration
	DeliveryAttempts  int
	RetryBackoff      time.Duration
	SweepInterval     time.Duration
	RetentionInterval time.Duration
	RetentionDays     int
	Location          *time.Location
}

func (o Options) withDefaults() Options {
	if o.MinLeadTime <= 0 {
		o.MinLeadTime = domain.DefaultMinLeadTime
	}
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = domain.DefaultNotifyTimeout
	}
	if o.DeliveryAttempts < 1 {
		o.DeliveryAttempts = domain.DefaultDeliveryAttempts
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = domain.DeliveryRetryBackoff
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = domain.DefaultSweepInterval
	}
	if o.RetentionInterval <= 0 {
		o.RetentionInterval = domain.DefaultRetentionInterval
	}
	if o.RetentionDays <= 0 {
		o.RetentionDays = domain.DefaultRetentionDays
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}
