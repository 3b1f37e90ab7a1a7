package main

import (
	"context"
	"time"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
)

// waitForMilvus blocks until Milvus accepts a connection; it can take tens of
// seconds to boot next to the API.
func waitForMilvus(ctx context.Context, address string, attempts int, perAttempt, delay time.Duration) error {
	log := logger.WithModule(config.ModuleMilvus).WithField("address", address)
	var lastErr error
	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, perAttempt)
		cli, err := client.NewClient(attemptCtx, client.Config{Address: address})
		cancel()
		if err == nil {
			cli.Close()
			log.Info("milvus reachable")
			return nil
		}
		lastErr = err
		log.WithField("attempt", i+1).Debugf("milvus not ready: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
