// Package sse provides Server-Sent Events client management for the
// live sales feed.
package sse

import (
	"sync"
)

// Client is one open dashboard stream. StoreID 0 subscribes to every
// store (the all-stores summary view).
type Client struct {
	Msg     chan string
	StoreID int64
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
	close(client.Msg)
}

// Broadcast delivers msg to clients watching storeID and to the
// all-stores subscribers. Slow clients drop the message rather than
// block the poller.
func (s *SSEClients) Broadcast(storeID int64, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.StoreID == storeID || client.StoreID == 0 {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
