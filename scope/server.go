package scope

import (
	"fmt"
	"log"
	"net"
	"sync"
)

// ScopeServer is a scope that serves frames over a websocket connection to
// remote clients.
type ScopeServer struct {
	address string

	server     *wsServer
	serverLock *sync.Mutex
}

// NewScopeServer creates a new scope server that listens on the given address.
func NewScopeServer(address string) *ScopeServer {
	return &ScopeServer{
		address:    address,
		server:     nil,
		serverLock: &sync.Mutex{},
	}
}

func (s *ScopeServer) Active() bool {
	return s.activeServer() != nil
}

// activeServer snapshots the current server under the lock. The serve
// goroutine clears s.server on its way out, callers must not touch s.server
// directly.
func (s *ScopeServer) activeServer() *wsServer {
	s.serverLock.Lock()
	defer s.serverLock.Unlock()
	return s.server
}

func (s *ScopeServer) Addr() net.Addr {
	s.serverLock.Lock()
	defer s.serverLock.Unlock()
	if s.server != nil {
		return s.server.Addr()
	}
	return nil
}

func (s *ScopeServer) Start() error {
	if s.Active() {
		return fmt.Errorf("scope was already started")
	}

	server, err := newWSServer(s.address, defaultOutBufferSize)
	if err != nil {
		return err
	}

	go func() {
		s.serverLock.Lock()
		if s.server != nil {
			s.serverLock.Unlock()
			return
		}
		s.server = server
		s.serverLock.Unlock()

		err := s.server.Serve()
		if err != nil {
			log.Printf("Scope server failed: %v", err)
		}

		s.serverLock.Lock()
		s.server = nil
		s.serverLock.Unlock()
	}()

	return nil
}

func (s *ScopeServer) Stop() {
	server := s.activeServer()
	if server == nil {
		return
	}

	server.Close()
}

func (s *ScopeServer) ShowWaveformFrame(frame *WaveformFrame) {
	server := s.activeServer()
	if server == nil {
		return
	}
	server.SendFrame(&wireFrame{Type: waveformFrameType, Waveform: frame})
}

func (s *ScopeServer) ShowTimeFrame(frame *TimeFrame) {
	server := s.activeServer()
	if server == nil {
		return
	}
	server.SendFrame(&wireFrame{Type: timeFrameType, Time: frame})
}

func (s *ScopeServer) ShowSpectralFrame(frame *SpectralFrame) {
	server := s.activeServer()
	if server == nil {
		return
	}
	server.SendFrame(&wireFrame{Type: spectralFrameType, Spectral: frame})
}
