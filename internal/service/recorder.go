package service

import "github.com/dmitrymomot/storefront/internal/domain"

// Recorder observes order events, typically for metrics.
type Recorder interface {
	OrderPlaced(order domain.Order)
	StatusChanged(order domain.Order, from domain.Status)
}

type nopRecorder struct{}

func (nopRecorder) OrderPlaced(domain.Order)                  {}
func (nopRecorder) StatusChanged(domain.Order, domain.Status) {}
