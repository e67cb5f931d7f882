// Package websocket streams pipeline events to dashboard clients.
//
// The Hub implements services.EventPublisher: upload and analysis events are
// encoded once as events.Message JSON and fanned out to every connected
// client. A client whose send buffer fills up is disconnected rather than
// slowing the others down. Clients only send heartbeats.
package websocket
