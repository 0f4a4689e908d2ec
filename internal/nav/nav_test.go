package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryPushAndBack(t *testing.T) {
	h := NewHistory(Home)
	h.Navigate(Dashboard, false)
	h.Navigate(MyAppointments, false)
	assert.Equal(t, []Location{Home, Dashboard, MyAppointments}, h.Entries())

	loc, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, Dashboard, loc)

	h.Back()
	loc, ok = h.Back()
	assert.False(t, ok, "back at root should report false")
	assert.Equal(t, Home, loc)
}

func TestHistoryReplaceSkipsGuardedPage(t *testing.T) {
	h := NewHistory(Home)
	h.Navigate(Dashboard, false)
	h.Navigate(Login, true)

	assert.Equal(t, Login, h.Current())
	loc, _ := h.Back()
	assert.Equal(t, Home, loc, "back must not return to the replaced location")
}

func TestHistorySubscribe(t *testing.T) {
	h := NewHistory(Home)
	var seen []Location
	unsubscribe := h.Subscribe(func(l Location) { seen = append(seen, l) })

	h.Navigate(Specialists, false)
	h.Back()
	unsubscribe()
	h.Navigate(Login, false)

	assert.Equal(t, []Location{Specialists, Home}, seen)
}

func TestNavigatorFunc(t *testing.T) {
	var got Location
	var replaced bool
	var n Navigator = NavigatorFunc(func(l Location, r bool) { got, replaced = l, r })
	n.Navigate(Login, true)
	assert.Equal(t, Login, got)
	assert.True(t, replaced)

	Discard.Navigate(Home, false)
}
