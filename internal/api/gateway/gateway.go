// Gateway API implementation
package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"SaferVault/internal/pkg/encryption/envelope"
	"SaferVault/internal/pkg/encryption/padding"
	"SaferVault/internal/protocol"
	"SaferVault/internal/services/auth"
	"SaferVault/internal/services/vault"
)

// Server represents the API gateway
type Server struct {
	addr       string
	authSvc    *auth.Service
	vaultSvc   *vault.Service
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan interface{}
	register   chan *Client
	unregister chan *Client
}

// Client represents a connected WebSocket client
type Client struct {
	userID int64
	conn   *websocket.Conn
	send   chan interface{}
	server *Server
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the token from "Bearer <token>" format
func extractToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// New creates a new gateway server
func New(addr string, authSvc *auth.Service, vaultSvc *vault.Service) *Server {
	server := &Server{
		addr:       addr,
		authSvc:    authSvc,
		vaultSvc:   vaultSvc,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan interface{}, 1024), // Buffered channel to prevent blocking
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	vaultSvc.SetBroadcastHandler(func(event interface{}) {
		server.Broadcast(event)
	})

	return server
}

// Start starts the gateway server
func (s *Server) Start() error {
	router := mux.NewRouter()

	// Root endpoint - return OK for health checks
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("SaferVault API Server"))
	}).Methods("GET", "OPTIONS")

	// Auth endpoints
	router.HandleFunc("/api/auth/register", s.handleRegister).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST", "OPTIONS")

	// Cipher endpoints
	router.HandleFunc("/api/encrypt", s.handleEncrypt).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/decrypt", s.handleDecrypt).Methods("POST", "OPTIONS")

	// Record endpoints
	router.HandleFunc("/api/records", s.handleListRecords).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/records/{recordID}", s.handleGetRecord).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/records/{recordID}", s.handleDeleteRecord).Methods("DELETE", "OPTIONS")

	// WebSocket endpoint
	router.HandleFunc("/ws", s.handleWebSocket)

	go s.runHub()

	log.Printf("Gateway server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, corsMiddleware(router))
}

// authenticate validates the bearer token of a request and returns its claims
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) *auth.Claims {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Missing authorization token", http.StatusUnauthorized)
		return nil
	}

	token := extractToken(authHeader)
	if token == "" {
		http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
		return nil
	}

	claims, err := s.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return nil
	}

	return claims
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, err := s.authSvc.Register(req.Username, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := s.authSvc.CreateToken(userID, req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":  userID,
		"token":    token,
		"username": req.Username,
	})
}

// handleLogin handles user login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := s.authSvc.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	claims, err := s.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"token":    token,
	})
}

// handleEncrypt encrypts a text payload; with a label it also stores a record
func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	claims := s.authenticate(w, r)
	if claims == nil {
		return
	}

	var req protocol.EncryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	blob, record, err := s.vaultSvc.EncryptText(r.Context(), claims.UserID, req.Label, req.Plaintext, req.Passphrase, req.Rounds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"blob": blob}
	if record != nil {
		response["record"] = record
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleDecrypt decrypts a stored record (by ID) or a raw blob
func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	claims := s.authenticate(w, r)
	if claims == nil {
		return
	}

	var req protocol.DecryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var plaintext string
	var err error
	switch {
	case req.RecordID != 0:
		plaintext, err = s.vaultSvc.DecryptRecord(r.Context(), claims.UserID, req.RecordID, req.Passphrase)
	case req.Blob != "":
		plaintext, err = s.vaultSvc.DecryptBlob(r.Context(), req.Blob, req.Passphrase, req.Rounds)
	default:
		http.Error(w, "record_id or blob is required", http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), decryptErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"plaintext": plaintext})
}

// decryptErrorStatus maps engine failures to HTTP statuses: malformed input
// is the client's fault, everything else is reported as a processing failure
func decryptErrorStatus(err error) int {
	switch {
	case errors.Is(err, envelope.ErrInvalidEncoding),
		errors.Is(err, envelope.ErrCiphertextTooShort):
		return http.StatusBadRequest
	case errors.Is(err, padding.ErrInvalidPadding),
		errors.Is(err, envelope.ErrInvalidPlaintext):
		// a wrong passphrase presents exactly like corrupted data
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	claims := s.authenticate(w, r)
	if claims == nil {
		return
	}

	records, err := s.vaultSvc.ListRecords(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"records": records})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	claims := s.authenticate(w, r)
	if claims == nil {
		return
	}

	recordID := parseInt(mux.Vars(r)["recordID"])
	record, err := s.vaultSvc.GetRecord(r.Context(), claims.UserID, recordID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	claims := s.authenticate(w, r)
	if claims == nil {
		return
	}

	recordID := parseInt(mux.Vars(r)["recordID"])
	if err := s.vaultSvc.DeleteRecord(r.Context(), claims.UserID, recordID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"deleted": true})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Token comes from the query parameter (preferred for WebSocket) with the
	// Authorization header as a fallback
	token := r.URL.Query().Get("token")
	if token == "" {
		token = extractToken(r.Header.Get("Authorization"))
	}

	if token == "" {
		log.Println("WebSocket connection rejected: no token provided")
		conn.Close()
		return
	}

	claims, err := s.authSvc.ValidateToken(token)
	if err != nil {
		log.Printf("WebSocket connection rejected: invalid token - %v", err)
		conn.Close()
		return
	}

	client := &Client{
		userID: claims.UserID,
		conn:   conn,
		send:   make(chan interface{}, 256),
		server: s,
	}

	s.register <- client
	log.Printf("WebSocket client connected: user %d", claims.UserID)

	go client.readPump()
	go client.writePump()
}

// runHub manages all connected clients
func (s *Server) runHub() {
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			s.mu.Unlock()

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()

		case message := <-s.broadcast:
			s.mu.RLock()
			targetUserID := int64(0)
			if wsEvent, ok := message.(*protocol.WebSocketEvent); ok {
				targetUserID = wsEvent.UserID
			}
			for c := range s.clients {
				if targetUserID != 0 && c.userID != targetUserID {
					continue
				}
				select {
				case c.send <- message:
				default:
					log.Printf("[Hub] Channel full for user %d, disconnecting", c.userID)
					go func(cl *Client) { s.unregister <- cl }(c)
				}
				// don't break on a match: a user may have multiple tabs open
			}
			s.mu.RUnlock()
		}
	}
}

// readPump reads messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(time.Hour))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		// clients only listen for events; drain anything they send
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast queues an event for delivery to connected clients
func (s *Server) Broadcast(msg interface{}) {
	select {
	case s.broadcast <- msg:
	default:
		log.Println("[Hub] Broadcast channel full, dropping event")
	}
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
