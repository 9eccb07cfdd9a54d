package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// Run with -race; these tests exist to catch locking regressions in the
// limiter, not to assert counts.

func TestRateLimiterConcurrentAccess(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute, "test-concurrent")

	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				// Alternate a shared IP with per-goroutine IPs to stress
				// both the existing-entry and new-entry paths.
				ip := "192.168.1.1"
				if i%3 == 0 {
					ip = fmt.Sprintf("10.0.0.%d", g%10)
				}
				limiter.isAllowed(ip)
			}
		}()
	}
	wg.Wait()
}

func TestRateLimiterConcurrentWithCleanup(t *testing.T) {
	// A very short window makes the cleanup goroutine run while
	// requests are still arriving.
	limiter := NewRateLimiter(5, 50*time.Millisecond, "test-cleanup")

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				limiter.isAllowed(fmt.Sprintf("10.0.0.%d", g%10))
				if i%10 == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()
}
