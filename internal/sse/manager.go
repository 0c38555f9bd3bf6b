package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"inbox-dashboard/internal/logger"
)

// SSEManager manages Server-Sent Event connections per dashboard session
type SSEManager struct {
	clients    map[string]map[chan []byte]bool // sessionID -> connection channels
	clientsMux sync.RWMutex

	logger *logger.Logger

	// Context for managing the SSE service lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// Event is the envelope every pushed message uses
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// NewSSEManager creates a new SSE manager
func NewSSEManager(logger *logger.Logger) *SSEManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &SSEManager{
		clients: make(map[string]map[chan []byte]bool),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddClient adds a new client connection for a specific session
func (s *SSEManager) AddClient(sessionID string) chan []byte {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if s.clients[sessionID] == nil {
		s.clients[sessionID] = make(map[chan []byte]bool)
	}

	channel := make(chan []byte, 16)
	s.clients[sessionID][channel] = true

	s.logger.Info("Added SSE client for session:", sessionID, "total clients:", len(s.clients[sessionID]))

	return channel
}

// RemoveClient removes a client connection
func (s *SSEManager) RemoveClient(sessionID string, channel chan []byte) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if sessionClients, exists := s.clients[sessionID]; exists {
		if _, ok := sessionClients[channel]; !ok {
			return
		}
		delete(sessionClients, channel)
		close(channel)

		s.logger.Info("Removed SSE client for session:", sessionID, "remaining clients:", len(sessionClients))

		if len(sessionClients) == 0 {
			delete(s.clients, sessionID)
		}
	}
}

// BroadcastToSession sends an event to every open stream of a session.
// Slow clients drop the event instead of blocking the sender.
func (s *SSEManager) BroadcastToSession(sessionID string, eventType string, data interface{}) {
	if s.ctx.Err() != nil {
		return
	}

	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	sessionClients, exists := s.clients[sessionID]
	if !exists {
		return
	}

	jsonData, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now().Unix()})
	if err != nil {
		s.logger.Error("Failed to marshal broadcast event:", err)
		return
	}

	for channel := range sessionClients {
		select {
		case channel <- jsonData:
		default:
			s.logger.Warn("Dropping SSE event for slow client in session:", sessionID)
		}
	}
}

// Close shuts down the SSE manager
func (s *SSEManager) Close() {
	s.cancel()

	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	for sessionID, sessionClients := range s.clients {
		for channel := range sessionClients {
			close(channel)
		}
		delete(s.clients, sessionID)
	}
}

// GetSessionConnectionCount returns the number of active connections for a session
func (s *SSEManager) GetSessionConnectionCount(sessionID string) int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	return len(s.clients[sessionID])
}

// HasSessionConnection checks if a session has active SSE connections
func (s *SSEManager) HasSessionConnection(sessionID string) bool {
	return s.GetSessionConnectionCount(sessionID) > 0
}
