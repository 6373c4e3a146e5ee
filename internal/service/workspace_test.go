package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaces_IsolatePerToken(t *testing.T) {
	f := newFixture(t)
	ws := NewWorkspaces(func(string) *StoreService { return f.newService() })

	a := ws.Open("tok-a", "user-a")
	b := ws.Open("tok-b", "user-b")
	require.NotSame(t, a, b)

	a.SetCurrentStore("store-a")
	assert.Equal(t, "user-a", a.CurrentUser())
	assert.Equal(t, "user-b", b.CurrentUser())
	assert.Empty(t, b.CurrentStore())

	// reopening keeps the existing context
	again := ws.Open("tok-a", "someone-else")
	assert.Same(t, a, again)
	assert.Equal(t, "user-a", again.CurrentUser())
	assert.Equal(t, "store-a", again.CurrentStore())

	got, ok := ws.Get("tok-b")
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestWorkspaces_CloseAndPrune(t *testing.T) {
	f := newFixture(t)
	ws := NewWorkspaces(func(string) *StoreService { return f.newService() })

	a := ws.Open("tok-a", "user-a")
	ws.Open("tok-b", "user-b")
	ws.Open("tok-c", "user-c")

	var events []Event
	a.Subscribe(func(ev Event) { events = append(events, ev) })
	ws.Close("tok-a")
	assert.Empty(t, a.CurrentUser())
	assert.Equal(t, []Event{{Type: EventUserChanged, Value: ""}}, events)

	removed := ws.Prune(func(token string) bool { return token == "tok-b" })
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, ws.Len())

	_, ok := ws.Get("tok-c")
	assert.False(t, ok)
}

func TestWorkspaces_FactoryAndCloseHookSeeTheToken(t *testing.T) {
	f := newFixture(t)
	var created, closed []string
	ws := NewWorkspaces(func(token string) *StoreService {
		created = append(created, token)
		return f.newService()
	})
	ws.OnClose(func(token string) { closed = append(closed, token) })

	ws.Open("tok-a", "user-a")
	ws.Open("tok-a", "user-a")
	ws.Open("tok-b", "user-b")
	ws.Close("tok-a")
	ws.Close("tok-missing")

	assert.Equal(t, []string{"tok-a", "tok-b"}, created)
	assert.Equal(t, []string{"tok-a"}, closed)
}
