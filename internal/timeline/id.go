package timeline

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var idCounter atomic.Uint64

// NewID generates an id that is unique within a session: wall-clock
// timestamp, a process-local counter and a random suffix. The counter
// distinguishes ids minted within the same nanosecond tick.
func NewID(prefix string) string {
	n := idCounter.Add(1)
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s_%d_%d_%s", prefix, time.Now().UnixNano(), n, suffix)
}
