package sse

import (
	"fmt"
	"io"
)

// Event — одно событие server-sent events
type Event struct {
	Event []byte
	Data  []byte
}

// MarshalTo сериализует событие в формат text/event-stream
func (e *Event) MarshalTo(w io.Writer) error {
	if len(e.Event) > 0 {
		if _, err := fmt.Fprintf(w, "event: %s\n", e.Event); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", e.Data); err != nil {
		return err
	}
	return nil
}
