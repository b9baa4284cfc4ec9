package scope

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const defaultOutBufferSize = 10

const (
	waveformFrameType = "waveform"
	timeFrameType     = "time"
	spectralFrameType = "spectral"
)

// wireFrame is the JSON envelope for all frame types. Type indicates which of
// the frame fields is set.
type wireFrame struct {
	Type     string         `json:"type"`
	Waveform *WaveformFrame `json:"waveform,omitempty"`
	Time     *TimeFrame     `json:"time,omitempty"`
	Spectral *SpectralFrame `json:"spectral,omitempty"`
}

// wsServer accepts websocket connections and fans incoming frames out to all
// connected clients. Clients that cannot keep up are disconnected instead of
// blocking the frame producer.
type wsServer struct {
	listener   net.Listener
	httpServer *http.Server
	upgrader   websocket.Upgrader

	outBufferSize int
	in            chan *wireFrame
	register      chan chan *wireFrame
	out           []chan *wireFrame
	shutdown      chan struct{}
	closeOnce     sync.Once
}

func newWSServer(address string, outBufferSize int) (*wsServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on address %s: %w", address, err)
	}

	result := &wsServer{
		listener:      listener,
		outBufferSize: outBufferSize,
		in:            make(chan *wireFrame),
		register:      make(chan chan *wireFrame),
		shutdown:      make(chan struct{}),
	}
	result.httpServer = &http.Server{
		Handler: http.HandlerFunc(result.handleConnection),
	}

	return result, nil
}

func (s *wsServer) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *wsServer) run() {
	for {
		select {
		case <-s.shutdown:
			for _, out := range s.out {
				close(out)
			}
			s.out = nil
			return
		case out := <-s.register:
			s.out = append(s.out, out)
		case frame := <-s.in:
			s.sendFrameToStreams(frame)
		}
	}
}

func (s *wsServer) removeStream(i int) {
	if len(s.out) == 1 {
		s.out = nil
		return
	}
	s.out[i] = s.out[len(s.out)-1]
	s.out = s.out[:len(s.out)-1]
}

func (s *wsServer) sendFrameToStreams(frame *wireFrame) {
	// iterate backwards, removeStream swaps in already visited elements
	for i := len(s.out) - 1; i >= 0; i-- {
		out := s.out[i]
		select {
		case out <- frame:
		default:
			close(out)
			s.removeStream(i)
		}
	}
}

func (s *wsServer) getFrameStream() chan *wireFrame {
	result := make(chan *wireFrame, s.outBufferSize)
	select {
	case s.register <- result:
	case <-s.shutdown:
		close(result)
	}
	return result
}

func (s *wsServer) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// drain the read side to detect a client-initiated close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	frames := s.getFrameStream()
	for frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

// Serve runs the server until Close is called.
func (s *wsServer) Serve() error {
	go s.run()

	err := s.httpServer.Serve(s.listener)
	s.closeOnce.Do(func() { close(s.shutdown) })
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *wsServer) Close() {
	s.httpServer.Close()
	s.closeOnce.Do(func() { close(s.shutdown) })
}

// SendFrame hands a frame to the fan-out hub. It never blocks: if the hub is
// not ready, the frame is dropped.
func (s *wsServer) SendFrame(frame *wireFrame) {
	select {
	case s.in <- frame:
	case <-s.shutdown:
	default:
	}
}
