package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// wsClient serialises writes to one connection, gorilla connections allow
// only one writer.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// @Summary	Open websocket for realtime status information
// @Description	Stats are pushed every two seconds, reload and close events as they happen.
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		a.log("couldn't make websocket: %s", err)
		return
	}
	client := a.addClient(ws)

	done := make(chan struct{})
	go a.websocketWriter(client, done)

	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}
	close(done)
	a.removeClient(ws)
}

func (a *Api) addClient(ws *websocket.Conn) *wsClient {
	client := &wsClient{conn: ws}
	a.wsMu.Lock()
	defer a.wsMu.Unlock()
	a.wsClients[ws] = client
	a.Stats.SetWsClients(len(a.wsClients))
	return client
}

func (a *Api) removeClient(ws *websocket.Conn) {
	a.wsMu.Lock()
	delete(a.wsClients, ws)
	a.Stats.SetWsClients(len(a.wsClients))
	a.wsMu.Unlock()

	// closing also unblocks a write stuck on this connection
	err := ws.Close()
	if err != nil {
		a.log("could not close websocket: %s", err)
	}
}

// send only holds the lock of the client it writes to, a slow client
// does not hold up the others.
func (a *Api) send(client *wsClient, packet []byte) error {
	a.wsMu.Lock()
	_, ok := a.wsClients[client.conn]
	a.wsMu.Unlock()
	if !ok {
		return fmt.Errorf("client gone")
	}

	client.writeMu.Lock()
	defer client.writeMu.Unlock()
	err := client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err != nil {
		return err
	}
	return client.conn.WriteMessage(websocket.TextMessage, packet)
}

func (a *Api) broadcast(data interface{}) {
	packet, err := json.Marshal(data)
	if err != nil {
		a.log("could not encode event: %s", err)
		return
	}

	a.wsMu.Lock()
	clients := make([]*wsClient, 0, len(a.wsClients))
	for _, client := range a.wsClients {
		clients = append(clients, client)
	}
	a.wsMu.Unlock()

	for _, client := range clients {
		err := a.send(client, packet)
		if err != nil {
			a.log("could not send event: %s", err)
		}
	}
}

func (a *Api) websocketWriter(client *wsClient, done chan struct{}) {
	pingTicker := time.NewTicker(2 * time.Second)
	defer pingTicker.Stop()

	for {
		packet, err := json.Marshal(a.Stats.Snapshot())
		if err != nil {
			return
		}
		if err := a.send(client, packet); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-pingTicker.C:
		}
	}
}
