package lspclient

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// maxRespawnAttempts is how many consecutive crashes a language server
// gets before the orchestrator marks it Disabled until the user
// explicitly re-enables it (§4.6 "Spawning policy").
const maxRespawnAttempts = 5

// newRespawnBackOff builds the exponential back-off schedule used between
// respawn attempts after a server crash (§7 "LSP server crashes are
// logged, handle is dropped, next request will attempt respawn (subject
// to back-off)"). Each LspHandle owns one instance and calls NextBackOff
// once per failed spawn — not backoff.Retry, which sleeps synchronously
// and would violate §5's "no operation blocks the loop" invariant.
func newRespawnBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2
	return b
}
