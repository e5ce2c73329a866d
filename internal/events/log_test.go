package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLog_AppendAndSince(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	e := &ServerConnected{
		BaseEvent:  NewBaseEvent(EventServerConnected, EntityServer, 1),
		ServerName: "velcro",
		Version:    "1.42.2",
	}
	id, err := log.Append(e)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	raw, err := log.Since(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, EventServerConnected, raw[0].EventType)
	assert.Equal(t, EntityServer, raw[0].EntityType)
	assert.Equal(t, int64(1), raw[0].EntityID)
	assert.Contains(t, raw[0].Payload, "velcro")
}

func TestEventLog_ForEntity(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := log.Append(&ServerConnected{BaseEvent: NewBaseEvent(EventServerConnected, EntityServer, 1)})
	require.NoError(t, err)
	_, err = log.Append(&ServerLost{BaseEvent: NewBaseEvent(EventServerLost, EntityServer, 1)})
	require.NoError(t, err)
	_, err = log.Append(&LibraryScanTriggered{BaseEvent: NewBaseEvent(EventLibraryScanTriggered, EntityLibrary, 3)})
	require.NoError(t, err)

	raw, err := log.ForEntity(EntityServer, 1)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, EventServerConnected, raw[0].EventType)
	assert.Equal(t, EventServerLost, raw[1].EventType)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	old := &ServerLost{BaseEvent: BaseEvent{
		Type:      EventServerLost,
		Entity:    EntityServer,
		ID:        1,
		Timestamp: time.Now().Add(-48 * time.Hour),
	}}
	_, err := log.Append(old)
	require.NoError(t, err)
	_, err = log.Append(&ServerConnected{BaseEvent: NewBaseEvent(EventServerConnected, EntityServer, 2)})
	require.NoError(t, err)

	pruned, err := log.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	raw, err := log.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, EventServerConnected, raw[0].EventType)
}

func TestRegistry_Unmarshal(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	registry := DefaultRegistry()

	_, err := log.Append(&ServerConnected{
		BaseEvent:  NewBaseEvent(EventServerConnected, EntityServer, 1),
		ServerName: "velcro",
		Version:    "1.42.2",
	})
	require.NoError(t, err)

	raw, err := log.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, raw, 1)

	event, err := registry.Unmarshal(raw[0])
	require.NoError(t, err)

	connected, ok := event.(*ServerConnected)
	require.True(t, ok, "expected *ServerConnected, got %T", event)
	assert.Equal(t, "velcro", connected.ServerName)
	assert.Equal(t, "1.42.2", connected.Version)
}

func TestRegistry_UnknownType(t *testing.T) {
	registry := DefaultRegistry()
	_, err := registry.Unmarshal(RawEvent{EventType: "bogus.event"})
	assert.Error(t, err)
}
