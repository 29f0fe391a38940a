package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastQueue_PushAndExpire(t *testing.T) {
	q := newToastQueue(0)
	assert.Equal(t, DefaultToastTTL, q.ttl)

	cmd := q.push(ToastSuccess, "Network Sentinel", "Monitoring started")
	require.NotNil(t, cmd)
	require.Len(t, q.Items(), 1)

	id := q.Items()[0].ID
	q.expire(id)
	assert.Empty(t, q.Items())

	q.expire(id)
	assert.Empty(t, q.Items(), "expiring twice is harmless")
}

func TestToastQueue_KeepsNewest(t *testing.T) {
	q := newToastQueue(0)
	for _, body := range []string{"a", "b", "c", "d", "e"} {
		q.push(ToastInfo, "t", body)
	}

	items := q.Items()
	require.Len(t, items, maxToasts)
	assert.Equal(t, "c", items[0].Body)
	assert.Equal(t, "e", items[2].Body)

	q.expire(items[1].ID)
	items = q.Items()
	assert.Equal(t, []string{"c", "e"}, []string{items[0].Body, items[1].Body})
}

func TestToastQueue_ExpiryMessageCarriesID(t *testing.T) {
	q := newToastQueue(1)
	msg := q.push(ToastFailure, "Ping Test Failed", "Could not reach server")()

	expired, ok := msg.(toastExpiredMsg)
	require.True(t, ok)
	assert.Equal(t, q.Items()[0].ID, expired.id)
}
