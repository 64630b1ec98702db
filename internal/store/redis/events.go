package redis

import "context"

// publish announces a changed key on the events channel. Best effort:
// listeners only use it to refresh derived state, so a lost event costs a
// stale cache until the next periodic refresh, not data.
func (s *Store) publish(ctx context.Context, key string) {
	_ = s.client.Publish(ctx, ChannelEvents, key).Err()
}

// Subscribe returns a channel of changed key names. The subscription lives
// until ctx is cancelled.
func (s *Store) Subscribe(ctx context.Context) <-chan string {
	sub := s.client.Subscribe(ctx, ChannelEvents)
	out := make(chan string, 16)

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					// Slow listener; drop rather than block the reader.
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
