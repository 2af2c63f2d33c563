package storage

import "deal-hunter/models"

// DealWriter is the interface any scored-deal storage backend must satisfy.
type DealWriter interface {
	Write(deals []*models.Deal) error
	Close() error
}

// RawFragmentWriter is the interface for persisting unprocessed scraped data.
type RawFragmentWriter interface {
	WriteRaw(frags []*models.RawFragment) error
	Close() error
}
