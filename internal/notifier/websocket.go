package notifier

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/models"
)

// maxConnsPerPatient caps how many dashboard tabs one patient can keep open.
const maxConnsPerPatient = 10

// WSManager pushes freshly recorded notifications to a patient's connected
// dashboard sockets.
type WSManager struct {
	connections map[int64]map[*websocket.Conn]bool
	mutex       sync.Mutex
	logger      *logrus.Logger
}

func NewWSManager(logger *logrus.Logger) *WSManager {
	return &WSManager{
		connections: make(map[int64]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// AddConnection registers a websocket connection for a patient.
func (m *WSManager) AddConnection(patientID int64, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, exists := m.connections[patientID]; !exists {
		m.connections[patientID] = make(map[*websocket.Conn]bool)
	}
	if len(m.connections[patientID]) >= maxConnsPerPatient {
		m.logger.Warnf("Max connections reached for patient %d", patientID)
		return
	}
	m.connections[patientID][conn] = true
	m.logger.Infof("Added WebSocket connection for patient %d (total: %d)", patientID, len(m.connections[patientID]))
}

// RemoveConnection drops a websocket connection for a patient.
func (m *WSManager) RemoveConnection(patientID int64, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[patientID]; exists {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(m.connections, patientID)
		}
		m.logger.Infof("Removed WebSocket connection for patient %d (remaining: %d)", patientID, len(conns))
	}
}

// SendToPatient pushes a notification to every connection the patient holds.
// Broken connections are dropped on the way.
func (m *WSManager) SendToPatient(patientID int64, n models.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		m.logger.Errorf("Failed to marshal notification for patient %d: %v", patientID, err)
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, exists := m.connections[patientID]; exists {
		for conn := range conns {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				m.logger.Errorf("Failed to push notification to patient %d: %v", patientID, err)
				delete(conns, conn)
			}
		}
		if len(conns) == 0 {
			delete(m.connections, patientID)
		}
	}
}
