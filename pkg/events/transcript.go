package events

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/conversation"
)

// TranscriptObserver returns a store observer writing every append as one
// MessageAppended JSON line to w. It runs on the appending goroutine, so lines
// come out in append order whatever the router's publish mode.
func TranscriptObserver(w io.Writer, conversationID string) conversation.Observer {
	var mu sync.Mutex
	return func(index int, msg conversation.Message) {
		b, err := json.Marshal(NewMessageAppended(conversationID, index, msg))
		if err != nil {
			log.Error().Err(err).Int("index", index).Msg("Failed to marshal transcript entry")
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if _, err := w.Write(append(b, '\n')); err != nil {
			log.Error().Err(err).Int("index", index).Msg("Failed to write transcript entry")
		}
	}
}
