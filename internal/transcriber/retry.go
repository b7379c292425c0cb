package transcriber

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/leonardotrapani/longscribe/internal/logging"
)

// RetryPolicy bounds how hard a single chunk is retried.
type RetryPolicy struct {
	MaxAttempts    uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// AttemptTimeout limits each call; zero means no limit.
	AttemptTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// RetryingClient retries transient failures of the wrapped client with
// exponential backoff and jitter. Permanent errors and cancellation stop
// immediately.
type RetryingClient struct {
	next   Client
	policy RetryPolicy
	log    zerolog.Logger
}

func NewRetryingClient(next Client, policy RetryPolicy) *RetryingClient {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 1
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = DefaultRetryPolicy().InitialBackoff
	}
	if policy.MaxBackoff < policy.InitialBackoff {
		policy.MaxBackoff = policy.InitialBackoff
	}
	return &RetryingClient{
		next:   next,
		policy: policy,
		log:    logging.Component("retry"),
	}
}

// Transcribe returns a *TranscriptionError once retries are exhausted.
func (c *RetryingClient) Transcribe(ctx context.Context, path string) (string, error) {
	attempts := 0

	operation := func() (string, error) {
		attempts++
		attemptCtx, cancel := c.attemptContext(ctx)
		defer cancel()

		text, err := c.next.Transcribe(attemptCtx, path)
		if err == nil {
			return text, nil
		}
		if IsPermanent(err) || ctx.Err() != nil {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.policy.InitialBackoff
	policy.MaxInterval = c.policy.MaxBackoff

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(c.policy.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.log.Warn().Err(err).Str("path", path).Int("attempt", attempts).Dur("backoff", wait).Msg("transcription failed, retrying")
		}),
	)
	if err != nil {
		return "", &TranscriptionError{Path: path, Attempts: attempts, Err: err}
	}
	return text, nil
}

func (c *RetryingClient) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.policy.AttemptTimeout > 0 {
		return context.WithTimeout(ctx, c.policy.AttemptTimeout)
	}
	return context.WithCancel(ctx)
}
