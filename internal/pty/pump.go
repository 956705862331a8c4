package pty

import "io"

// pumpChunkSize is the maximum number of bytes one read call may return.
// Chunk boundaries are whatever the underlying read gives back; downstream
// code must not assume line or UTF-8 alignment.
const pumpChunkSize = 4096

// StartPump starts a dedicated goroutine that performs blocking reads on r
// and forwards each non-empty chunk, unmodified, over the returned channel.
// Chunks queue in memory without bound while the consumer lags: a slow or
// stuck consumer grows the queue, it never stalls reads from the child.
// The channel is closed, after queued chunks drain, on EOF or any read
// error; the pump never touches any other shared state.
func StartPump(r io.Reader) <-chan []byte {
	out := make(chan []byte)
	in := make(chan []byte)

	go func() {
		defer close(in)
		buf := make([]byte, pumpChunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				in <- chunk
			}
			if err != nil {
				// EOF and read errors both end the pump; the engine
				// observes the end of output as a closed channel.
				return
			}
		}
	}()

	// Forwarder between the reader and the consumer. The receive arm is
	// always ready, so the reader's send above parks only for the duration
	// of one select iteration, regardless of consumer speed.
	go func() {
		defer close(out)
		var queue [][]byte
		for in != nil || len(queue) > 0 {
			var send chan<- []byte
			var head []byte
			if len(queue) > 0 {
				send = out
				head = queue[0]
			}
			select {
			case chunk, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				queue = append(queue, chunk)
			case send <- head:
				queue = queue[1:]
			}
		}
	}()

	return out
}
