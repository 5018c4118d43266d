package storage

import (
	"fmt"
	"time"
)

// New builds the Adapter selected by cfg.Driver.
func New(cfg Config) (Adapter, error) {
	fetcher := NewFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)

	switch cfg.Driver {
	case "", DriverLocal:
		if cfg.Root == "" {
			return nil, fmt.Errorf("storage root is required for the %s driver", DriverLocal)
		}
		return NewLocal(cfg.Root, fetcher), nil
	case DriverMinio:
		client, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return NewObjectStore(client, cfg.Bucket, fetcher), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
