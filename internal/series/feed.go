package series

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Feed appends samples from in until the channel closes or ctx is
// cancelled. It is a convenience for callers that produce samples on a
// goroutine and do not want to hold the series lock on their own stack;
// each sample still goes through the normal Append path.
func (s *Series) Feed(ctx context.Context, in <-chan float64) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("series", s.id.String()).Msg("feed stopped by context")
			return
		case v, ok := <-in:
			if !ok {
				log.Debug().Str("series", s.id.String()).Msg("feed channel closed")
				return
			}
			s.Append(v)
		}
	}
}
