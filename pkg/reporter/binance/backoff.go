package binance

import "time"

// Backoff returns the wait before retrying after failed attempt n (1-based):
// 1s, 2s, 4s, ... The exponential curve backs off quickly from rate limits;
// the retry budget bounds total latency, so no ceiling is applied.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(1<<uint(attempt-1)) * time.Second
}
